package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/zen-zone/internal/models"
)

func TestAuthDecision(t *testing.T) {
	identity := &models.Identity{UserUID: "uid-1", Username: "alice"}

	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{
			name:  "во время загрузки ждем",
			state: State{Loading: true},
			want:  Wait,
		},
		{
			name:  "загрузка с известной личностью все равно ждет",
			state: State{Loading: true, Identity: identity},
			want:  Wait,
		},
		{
			name:  "без личности редирект на вход",
			state: State{},
			want:  RedirectSignIn,
		},
		{
			name:  "с личностью доступ разрешен",
			state: State{Identity: identity},
			want:  Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthDecision(tt.state))
		})
	}
}

func TestPremiumDecision(t *testing.T) {
	identity := &models.Identity{UserUID: "uid-1", Username: "alice"}
	premium := &models.Entitlement{IsSubscribed: true}
	free := &models.Entitlement{IsSubscribed: false}

	tests := []struct {
		name  string
		state State
		want  Decision
	}{
		{
			name:  "во время загрузки ждем",
			state: State{Loading: true},
			want:  Wait,
		},
		{
			name:  "без личности редирект на вход",
			state: State{},
			want:  RedirectSignIn,
		},
		{
			name:  "права еще разрешаются, ждем",
			state: State{Identity: identity},
			want:  Wait,
		},
		{
			name:  "бесплатный тариф, редирект на тарифы",
			state: State{Identity: identity, Entitlement: free},
			want:  RedirectPricing,
		},
		{
			name:  "премиум, доступ разрешен",
			state: State{Identity: identity, Entitlement: premium},
			want:  Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PremiumDecision(tt.state))
		})
	}
}
