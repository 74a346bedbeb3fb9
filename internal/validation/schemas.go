package validation

// ListingSchema checks the listing create and edit forms.
var ListingSchema = Schema{
	{Name: "title", Required: true, Max: 255},
	{Name: "description", Required: true},
	{Name: "salary", Required: true, Max: 45, Rules: "numeric"},
	{Name: "tags", Max: 255},
	{Name: "company", Max: 255},
	{Name: "address", Max: 255},
	{Name: "city", Required: true, Max: 45},
	{Name: "state", Required: true, Max: 45},
	{Name: "phone", Max: 45, Rules: "phone"},
	{Name: "email", Required: true, Max: 255, Rules: "email"},
	{Name: "requirements"},
	{Name: "benefits"},
}

// RegisterSchema checks the sign-up form.
var RegisterSchema = Schema{
	{Name: "name", Required: true, Min: 2, Max: 30},
	{Name: "email", Required: true, Max: 255, Rules: "email", Message: "Please enter a valid email address"},
	{Name: "city", Max: 45},
	{Name: "state", Max: 45},
	{Name: "password", Required: true, Min: 6, Max: 30},
	{Name: "password_confirmation", EqualTo: "password", Message: "Passwords must match"},
}

// LoginSchema checks the sign-in form.
var LoginSchema = Schema{
	{Name: "email", Required: true, Rules: "email", Message: "Please enter a valid email"},
	{Name: "password", Required: true, Min: 6, Message: "Password must be at least 6 characters"},
}
