package responder

import "fmt"

// Bucket groups ratings into response categories.
type Bucket int

const (
	BucketPositive Bucket = iota // rating >= 4
	BucketNeutral                // rating == 3
	BucketNegative               // rating <= 2
)

func bucketFor(rating int) Bucket {
	switch {
	case rating >= 4:
		return BucketPositive
	case rating == 3:
		return BucketNeutral
	default:
		return BucketNegative
	}
}

var positiveTemplates = []string{
	"Thank you so much for your wonderful review! We're thrilled to hear that you had such a positive experience with %[1]s. Your feedback means the world to us and motivates our team to continue providing excellent service. We look forward to serving you again soon!",
	"We're absolutely delighted by your %[2]d-star review! It's fantastic to know that we exceeded your expectations. At %[1]s, we're committed to delivering exceptional experiences, and your kind words confirm we're on the right track. Thank you for choosing us!",
	"Your glowing review has made our day! We're so pleased that you enjoyed your experience with %[1]s. Our team works hard to provide outstanding service, and it's incredibly rewarding to see that reflected in your feedback. We can't wait to welcome you back!",
}

var neutralTemplates = []string{
	"Thank you for taking the time to share your feedback about %[1]s. We appreciate your honest review and are always looking for ways to improve our service. We'd love the opportunity to exceed your expectations on your next visit. Please don't hesitate to reach out if there's anything specific we can do better.",
	"We appreciate your review and are glad you chose %[1]s. While we're pleased you had a decent experience, we're always striving to do better. Your feedback helps us identify areas for improvement. We hope to have the chance to provide you with an even better experience next time!",
	"Thank you for your feedback about your experience with %[1]s. We value all reviews as they help us grow and improve. We'd welcome the opportunity to discuss your visit further and show you the improvements we've been making. Please feel free to contact us directly.",
}

var negativeTemplates = []string{
	"Thank you for bringing your concerns to our attention. We sincerely apologize that your experience with %[1]s didn't meet your expectations. Your feedback is invaluable in helping us improve our service. We'd appreciate the opportunity to discuss this further and make things right. Please contact us directly so we can address your concerns properly.",
	"We're truly sorry to hear about your disappointing experience at %[1]s. This is not the level of service we strive to provide, and we take your feedback very seriously. We'd like to learn more about what went wrong and work to resolve this issue. Please reach out to us directly so we can make this right.",
	"We apologize for falling short of your expectations during your visit to %[1]s. Your feedback is crucial for our improvement, and we're committed to addressing the issues you've raised. We'd value the opportunity to speak with you directly to understand how we can do better and regain your trust.",
}

// Candidates returns every base response the generator may produce for a
// rating and business name, before tone adjustment. Exposed so tests can
// assert set membership without fixing the random choice.
func Candidates(rating int, businessName string) []string {
	var templates []string
	switch bucketFor(rating) {
	case BucketPositive:
		templates = positiveTemplates
	case BucketNeutral:
		templates = neutralTemplates
	default:
		templates = negativeTemplates
	}

	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = fmt.Sprintf(t, businessName, rating)
	}
	return out
}
