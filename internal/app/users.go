package app

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/validation"
	"github.com/vitalvas/workopia/internal/view"
)

var registerFields = []string{"name", "email", "city", "state", "password", "password_confirmation"}

// UsersCreate shows the registration form.
func (a *App) UsersCreate(c *Context) error {
	return a.render(c, http.StatusOK, "users/create", view.Page{Title: "Register"})
}

// UsersStore registers a new account and signs it in.
func (a *App) UsersStore(c *Context) error {
	form, err := c.Form()
	if err != nil {
		return err
	}

	values := validation.Sanitize(form, registerFields)
	// Passwords are taken verbatim.
	values["password"] = form.Get("password")
	values["password_confirmation"] = form.Get("password_confirmation")

	public := map[string]string{
		"name":  values["name"],
		"email": values["email"],
		"city":  values["city"],
		"state": values["state"],
	}

	rerender := func(errs validation.Errors) error {
		return a.render(c, http.StatusUnprocessableEntity, "users/create", view.Page{
			Title:  "Register",
			Errors: errs,
			Values: public,
		})
	}

	if errs := validation.RegisterSchema.Validate(values); errs != nil {
		return rerender(errs)
	}

	ctx := c.R.Context()
	emailTaken := validation.Errors{"email": "That email already exists"}

	_, err = a.users.FindByEmail(ctx, values["email"])
	switch {
	case err == nil:
		return rerender(emailTaken)
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(values["password"]), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("register: hash password: %w", err)
	}

	user := models.User{
		Name:     values["name"],
		Email:    values["email"],
		City:     values["city"],
		State:    values["state"],
		Password: string(hash),
	}

	user.ID, err = a.users.Create(ctx, user)
	if errors.Is(err, models.ErrDuplicateEmail) {
		return rerender(emailTaken)
	}
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if err := a.signIn(c, user); err != nil {
		return err
	}

	c.Logger().Info().Int64("user_id", user.ID).Msg("user registered")

	return c.Redirect("/")
}

// UsersLogin shows the sign-in form.
func (a *App) UsersLogin(c *Context) error {
	return a.render(c, http.StatusOK, "users/login", view.Page{Title: "Login"})
}

// UsersAuthenticate signs a user in with email and password.
func (a *App) UsersAuthenticate(c *Context) error {
	form, err := c.Form()
	if err != nil {
		return err
	}

	values := validation.Sanitize(form, []string{"email"})
	values["password"] = form.Get("password")

	rerender := func(errs validation.Errors) error {
		return a.render(c, http.StatusUnprocessableEntity, "users/login", view.Page{
			Title:  "Login",
			Errors: errs,
			Values: map[string]string{"email": values["email"]},
		})
	}

	if errs := validation.LoginSchema.Validate(values); errs != nil {
		return rerender(errs)
	}

	invalid := validation.Errors{"email": "Invalid email or password"}

	user, err := a.users.FindByEmail(c.R.Context(), values["email"])
	if errors.Is(err, models.ErrNotFound) {
		bcrypt.CompareHashAndPassword(a.dummyHash, []byte(values["password"]))
		return rerender(invalid)
	}
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(values["password"])); err != nil {
		c.Logger().Info().Int64("user_id", user.ID).Msg("failed sign-in")
		return rerender(invalid)
	}

	if err := a.signIn(c, user); err != nil {
		return err
	}

	return c.Redirect("/")
}

// UsersLogout ends the session.
func (a *App) UsersLogout(c *Context) error {
	if err := a.sessions.Destroy(c.W, c.R); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return c.Redirect("/")
}

func (a *App) signIn(c *Context, user models.User) error {
	if err := a.sessions.Renew(c.W, c.R); err != nil {
		return fmt.Errorf("sign in: renew session: %w", err)
	}

	if err := c.SignIn(user.SessionUser()); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	return nil
}
