package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt digest at the given cost. The cost comes
// from configuration so tests can run at bcrypt.MinCost.
func HashPassword(plain string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// ComparePassword checks a plaintext candidate against a stored digest.
func ComparePassword(hashed, candidate string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(candidate))
}
