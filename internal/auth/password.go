package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost used for all stored password hashes.
const bcryptCost = 12

// dummyHash is a valid bcrypt hash of a random string. Authenticate compares
// against it when the email is unknown so that lookup failure and password
// mismatch take the same time.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("reviewpilot-dummy-credential"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
