package cli

import (
	"context"
	"fmt"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

func (a *App) runLogin(ctx context.Context) {
	identifier, err := promptText(a.reader, "Email or phone", a.out)
	if err != nil {
		a.fail("Login", err)
		return
	}
	password, err := promptPassword("Password", a.out)
	if err != nil {
		a.fail("Login", err)
		return
	}

	form := LoginForm{Identifier: identifier, Password: password}
	if err := ValidateForm(form); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	outcome, err := a.sessions.Login(ctx, form.Identifier, form.Password)
	if err != nil {
		a.fail("Login", err)
		return
	}
	if !outcome.OK {
		fmt.Fprintln(a.out, outcome.Message)
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", outcome.User.Name, domain.DisplayLabel(outcome.User.Role))
}

func (a *App) runSignUp(ctx context.Context) {
	form, err := a.collectSignUpForm()
	if err != nil {
		a.fail("Sign up", err)
		return
	}
	if err := ValidateForm(form); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}

	outcome, err := a.sessions.SignUp(ctx, form.Input())
	if err != nil {
		a.fail("Sign up", err)
		return
	}
	if !outcome.OK {
		fmt.Fprintln(a.out, outcome.Message)
		return
	}
	fmt.Fprintln(a.out, "Account created. Check your phone for a confirmation code, then log in.")
}

func (a *App) collectSignUpForm() (SignUpForm, error) {
	var form SignUpForm
	var err error

	if form.Role, err = promptText(a.reader, "Role (customer/courier)", a.out); err != nil {
		return form, err
	}
	if form.Name, err = promptText(a.reader, "Full name", a.out); err != nil {
		return form, err
	}
	if form.Email, err = promptText(a.reader, "Email", a.out); err != nil {
		return form, err
	}
	if form.Phone, err = promptText(a.reader, "Phone", a.out); err != nil {
		return form, err
	}
	if form.Password, err = promptPassword("Password", a.out); err != nil {
		return form, err
	}

	switch form.Role {
	case domain.RoleCustomer:
		if form.PickupAddress, err = promptText(a.reader, "Pickup address", a.out); err != nil {
			return form, err
		}
		if form.DeliveryAddress, err = promptText(a.reader, "Delivery address", a.out); err != nil {
			return form, err
		}
	case domain.RoleCourier:
		if form.VehicleModel, err = promptText(a.reader, "Vehicle model", a.out); err != nil {
			return form, err
		}
		if form.VehiclePlate, err = promptText(a.reader, "Vehicle plate", a.out); err != nil {
			return form, err
		}
		if form.VehicleColor, err = promptText(a.reader, "Vehicle color", a.out); err != nil {
			return form, err
		}
		if form.PayoutMethod, err = promptText(a.reader, "Payout method", a.out); err != nil {
			return form, err
		}
		if form.BankName, err = promptText(a.reader, "Bank name", a.out); err != nil {
			return form, err
		}
		if form.AccountNumber, err = promptText(a.reader, "Account number", a.out); err != nil {
			return form, err
		}
	}
	return form, nil
}

func (a *App) runLogout(ctx context.Context) {
	if err := a.sessions.Logout(ctx); err != nil {
		a.fail("Logout", err)
		return
	}
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) runWhoami() {
	sess := a.sessions.Session()
	if !sess.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", sess.User.Name, sess.User.Email, domain.DisplayLabel(sess.UserType))
}

func (a *App) runSendOTP(ctx context.Context) {
	phone, err := promptText(a.reader, "Phone", a.out)
	if err != nil {
		a.fail("Send code", err)
		return
	}
	if phone == "" {
		fmt.Fprintln(a.out, "phone is required")
		return
	}

	outcome, err := a.sessions.SendOTP(ctx, phone)
	if err != nil {
		a.fail("Send code", err)
		return
	}
	if !outcome.OK {
		fmt.Fprintln(a.out, outcome.Message)
		return
	}
	fmt.Fprintln(a.out, "Code sent.")
}
