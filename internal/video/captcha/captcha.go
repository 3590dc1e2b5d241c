// Package captcha verifies user-supplied challenge tokens against an
// external provider. Verification fails closed: any transport problem,
// bad status, or unexpected body counts as a failed check.
package captcha

type Provider string

const (
	None      Provider = "none"
	ReCaptcha Provider = "recaptcha"
	HCaptcha  Provider = "hcaptcha"
	Turnstile Provider = "turnstile"
)

// Fixed verification endpoints per provider.
const (
	recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	hcaptchaVerifyURL  = "https://hcaptcha.com/siteverify"
	turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
)

func (p Provider) Valid() bool {
	switch p {
	case None, ReCaptcha, HCaptcha, Turnstile:
		return true
	}
	return false
}

// VerifyURL returns the provider's siteverify endpoint, or "" for None and
// unknown providers.
func (p Provider) VerifyURL() string {
	switch p {
	case ReCaptcha:
		return recaptchaVerifyURL
	case HCaptcha:
		return hcaptchaVerifyURL
	case Turnstile:
		return turnstileVerifyURL
	}
	return ""
}

// ResponseField returns the form field the provider's client widget posts
// the token under.
func (p Provider) ResponseField() string {
	switch p {
	case ReCaptcha:
		return "g-recaptcha-response"
	case HCaptcha:
		return "h-captcha-response"
	case Turnstile:
		return "cf-turnstile-response"
	}
	return ""
}

// ResponseFields lists every provider token field, for transports that
// accept whichever the client sent.
func ResponseFields() []string {
	return []string{
		ReCaptcha.ResponseField(),
		HCaptcha.ResponseField(),
		Turnstile.ResponseField(),
	}
}

type Credentials struct {
	SiteKey   string
	SecretKey string
}

// Config selects the active provider. Keys for inactive providers stay
// stored so switching back does not lose them.
type Config struct {
	Provider Provider
	Keys     map[Provider]Credentials
}

// Secret returns the secret key of the active provider.
func (c Config) Secret() string {
	return c.Keys[c.Provider].SecretKey
}
