package config

import (
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

// Authenticators get 60 seconds to produce a response before the browser
// abandons the ceremony.
const ceremonyTimeout = 60 * time.Second

func InitWebAuthn() *webauthn.WebAuthn {
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: Conf.Application.WebAuthn.RpDisplayName,
		RPID:          Conf.Application.WebAuthn.RpID,
		RPOrigins:     []string{Conf.Application.WebAuthn.RpOrigin},
		Timeouts: webauthn.TimeoutsConfig{
			Registration: webauthn.TimeoutConfig{
				Enforce: true,
				Timeout: ceremonyTimeout,
			},
			Login: webauthn.TimeoutConfig{
				Enforce: true,
				Timeout: ceremonyTimeout,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return wa
}
