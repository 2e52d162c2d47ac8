package service

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naveenspark/eventdesk/internal/session"
	"github.com/naveenspark/eventdesk/pkg/domain"
)

// authMessages maps "field.tag" to the message shown under the field.
var authMessages = map[string]string{
	"name.required":            "Name is required",
	"email.required":           "Email is required",
	"email.email":              "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"confirmPassword.required": "Confirm Password is required",
	"confirmPassword.eqfield":  "Passwords do not match",
}

// Auth logs users in and signs them up. It is the only writer of the
// session besides logout.
type Auth struct {
	api      AuthAPI
	store    session.Store
	log      *slog.Logger
	validate *validator.Validate
}

func NewAuth(api AuthAPI, store session.Store, log *slog.Logger) *Auth {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Auth{api: api, store: store, log: log, validate: v}
}

// Login validates form, exchanges it for a session and stores the session.
func (a *Auth) Login(ctx context.Context, form domain.LoginForm) (domain.Session, error) {
	const op = "service.Auth.Login"

	log := a.log.With(slog.String("op", op))

	form.Email = strings.TrimSpace(form.Email)
	if errs := a.check(form); errs != nil {
		return domain.Session{}, errs
	}

	sess, err := a.api.Login(ctx, form)
	if err != nil {
		log.Error("login rejected", slog.String("email", form.Email), slog.String("error", err.Error()))
		return domain.Session{}, newFailure(OpLogin, err)
	}
	if !sess.Valid() {
		log.Error("login response missing token or user id")
		return domain.Session{}, &Failure{Op: OpLogin, Err: errors.New("incomplete session in login response")}
	}
	if err := a.store.Set(sess.UserID, sess.Token); err != nil {
		return domain.Session{}, &Failure{Op: OpLogin, Err: err}
	}

	log.Info("logged in", slog.String("user_id", sess.UserID))
	return sess, nil
}

// Signup validates form and creates the account. It does not log in.
func (a *Auth) Signup(ctx context.Context, form domain.SignupForm) error {
	const op = "service.Auth.Signup"

	log := a.log.With(slog.String("op", op))

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if errs := a.check(form); errs != nil {
		return errs
	}

	if _, err := a.api.Signup(ctx, form); err != nil {
		log.Error("signup rejected", slog.String("error", err.Error()))
		return newFailure(OpSignup, err)
	}

	log.Info("account created", slog.String("email", form.Email))
	return nil
}

// Logout forgets the stored session.
func (a *Auth) Logout() error {
	return a.store.Clear()
}

func (a *Auth) check(form any) domain.ValidationErrors {
	err := a.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationErrors{"form": err.Error()}
	}
	out := domain.ValidationErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := authMessages[field+"."+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		out[field] = msg
	}
	return out
}
