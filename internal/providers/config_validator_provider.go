package providers

import (
	"fmt"
	"hrvd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if len(cv.conf.Users) == 0 {
		return fmt.Errorf("config: at least one user must be configured")
	}
	seen := make(map[string]struct{}, len(cv.conf.Users))
	for _, u := range cv.conf.Users {
		if u.ID == "" {
			return fmt.Errorf("config: user entry with empty id")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("config: duplicate user id %q", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}
