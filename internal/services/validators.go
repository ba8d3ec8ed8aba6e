package services

import (
	"context"
	"fmt"
	"regexp"

	"accountd/internal/repositories"
)

const maxUsernameLength = 30

var usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

// SignupValidator checks signup fields against format rules and
// existing records. Each method returns a human-readable message on
// failure and the empty string when the value is acceptable; the error
// return is reserved for infrastructure failures.
type SignupValidator struct {
	users  repositories.UserRepository
	emails repositories.EmailAddressRepository
}

func NewSignupValidator(users repositories.UserRepository, emails repositories.EmailAddressRepository) *SignupValidator {
	return &SignupValidator{users: users, emails: emails}
}

func (v *SignupValidator) CleanUsername(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "This field is required.", nil
	}
	if len(username) > maxUsernameLength {
		return fmt.Sprintf("Ensure this field has no more than %d characters.", maxUsernameLength), nil
	}
	if !usernameRegexp.MatchString(username) {
		return "Usernames can only contain letters, numbers and @/./+/-/_ characters.", nil
	}

	taken, err := v.users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("check username availability: %w", err)
	}
	if taken {
		return "This username is already taken. Please choose another.", nil
	}
	return "", nil
}

func (v *SignupValidator) CleanEmail(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "This field is required.", nil
	}

	taken, err := v.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check email availability: %w", err)
	}
	if !taken {
		taken, err = v.emails.ExistsByEmail(ctx, email)
		if err != nil {
			return "", fmt.Errorf("check email availability: %w", err)
		}
	}
	if taken {
		return "A user is registered with this email address.", nil
	}
	return "", nil
}

// ComparePasswords reports a message when the two entries differ. The
// comparison is a plain equality check; ordering of the two values is
// irrelevant.
func (v *SignupValidator) ComparePasswords(password, passwordConfirm string) string {
	if password != passwordConfirm {
		return "You must type the same password each time."
	}
	return ""
}
