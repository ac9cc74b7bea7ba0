package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher is a one-way password hash with a server-side pepper appended
// before hashing.
type Hasher struct {
	pepper string
	params *argon2id.Params
}

func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper, params: argonParams}
}

// newFastHasher keeps tests quick.
func newFastHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper, params: &argon2id.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	}}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

// Verify reports whether plain matches hash. A malformed hash is an internal
// error, not a mismatch.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false, customErrors.WrapInternal(err, "compare password")
	}
	return ok, nil
}
