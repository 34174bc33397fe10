package domain

import "time"

type SubscriptionTier string

const (
	SubscriptionFree    SubscriptionTier = "free"
	SubscriptionPremium SubscriptionTier = "premium"
)

type User struct {
	ID               int32            `json:"id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"`
	ZipCode          string           `json:"zip_code"`
	Subscription     SubscriptionTier `json:"subscription"`
	PremiumExpiresOn *time.Time       `json:"premium_expires_on,omitempty"`
	CreatedOn        time.Time        `json:"created_on"`
	UpdatedOn        time.Time        `json:"updated_on"`
}

// IsPremium reports whether the premium subscription is currently active.
func (u *User) IsPremium() bool {
	if u.Subscription != SubscriptionPremium {
		return false
	}
	return u.PremiumExpiresOn == nil || u.PremiumExpiresOn.After(time.Now())
}
