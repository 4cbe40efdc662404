package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// Prompter asks the operator for a single value.
type Prompter interface {
	Prompt(ctx context.Context, label string, secret bool) (string, error)
}

// PromptAuth implements gotd's auth.UserAuthenticator by asking a Prompter
// for anything not known up front.
type PromptAuth struct {
	phone    string
	prompter Prompter
}

func NewPromptAuth(phone string, prompter Prompter) *PromptAuth {
	return &PromptAuth{phone: phone, prompter: prompter}
}

func (a *PromptAuth) Phone(ctx context.Context) (string, error) {
	if a.phone != "" {
		return a.phone, nil
	}
	return a.ask(ctx, "Phone number", false)
}

func (a *PromptAuth) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	return a.ask(ctx, "Login code", false)
}

func (a *PromptAuth) Password(ctx context.Context) (string, error) {
	return a.ask(ctx, "2FA password", true)
}

func (a *PromptAuth) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

func (a *PromptAuth) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("sign up not supported")
}

func (a *PromptAuth) ask(ctx context.Context, label string, secret bool) (string, error) {
	if a.prompter == nil {
		return "", errors.New("interactive login required: " + strings.ToLower(label) + " not available")
	}
	v, err := a.prompter.Prompt(ctx, label, secret)
	if err != nil {
		return "", err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errors.New(strings.ToLower(label) + " is empty")
	}
	return v, nil
}
