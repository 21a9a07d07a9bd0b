package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/agora-forum/api-go/models"
)

const maxTitleLength = 128

// loginChars covers the one rule the built-in tags cannot express.
var loginChars = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("login", func(fl validator.FieldLevel) bool {
		return loginChars.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register login rule: %v", err))
	}
	return v
}

type passwordInput struct {
	Password             string `validate:"required,min=8,containsany=0123456789,containsany=abcdefghijklmnopqrstuvwxyz,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ"`
	PasswordConfirmation string `validate:"eqfield=Password"`
}

// validationErr turns the first failed rule into a *ValidationError. field
// names the value when the rule came from validate.Var.
func validationErr(field string, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	if fe.Field() != "" {
		field = lowerFirst(fe.Field())
	}
	return invalid(field, ruleMessage(fe))
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "login":
		return "must contain only letters, digits, '_', '.' or '-'"
	case "containsany":
		return "must contain a digit, a lowercase and an uppercase letter"
	case "eqfield":
		return "does not match password"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func checkVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return validationErr(field, err)
	}
	return nil
}

func validatePage(page int) error {
	if page < 0 {
		return invalid("page", "must not be negative")
	}
	if page > MaxPage {
		return invalid("page", "is too large")
	}
	return nil
}

func validateID(field string, id uint) error {
	if id == 0 {
		return invalid(field, "must be a positive integer")
	}
	return nil
}

func validateLikeType(t models.LikeType) error {
	return checkVar("likeType", string(t), "required,oneof=like dislike")
}

func validateStatus(s models.Status) error {
	return checkVar("status", string(s), "omitempty,oneof=active inactive")
}

func validateTitle(title string) error {
	return checkVar("title", strings.TrimSpace(title), "required,max=128")
}

func validateContent(content string) error {
	return checkVar("content", strings.TrimSpace(content), "required")
}

func validateLogin(login string) error {
	return checkVar("login", login, "required,min=3,max=64,login")
}

func validateEmail(email string) error {
	return checkVar("email", email, "required,email")
}

func validatePassword(password, confirmation string) error {
	return validateStruct(passwordInput{Password: password, PasswordConfirmation: confirmation})
}

func validateRole(role string) error {
	return checkVar("role", role, "required,oneof=user admin")
}

func validateStruct(in interface{}) error {
	if err := validate.Struct(in); err != nil {
		return validationErr("", err)
	}
	return nil
}

// uniqueIDs drops duplicates while keeping the first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
