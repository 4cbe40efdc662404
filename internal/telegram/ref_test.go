package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"@alpha_chat", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"alpha_chat", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"https://t.me/alpha_chat", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"t.me/alpha_chat/1234", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"http://telegram.me/alpha_chat?start=x", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"https://t.me/s/alpha_chat", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"t.me/s/alpha_chat/1234", Ref{Kind: RefUsername, Username: "alpha_chat"}},
		{"https://t.me/+AbCdEf123", Ref{Kind: RefInvite, Hash: "AbCdEf123"}},
		{"https://t.me/joinchat/AbCdEf123", Ref{Kind: RefInvite, Hash: "AbCdEf123"}},
		{"-1001234567890", Ref{Kind: RefID, ID: -1001234567890}},
		{"-4567", Ref{Kind: RefID, ID: -4567}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRef_Invalid(t *testing.T) {
	for _, in := range []string{"", "@", "@ab", "has space", "0", "https://t.me/+", "t.me/bad-name"} {
		if _, err := ParseRef(in); err == nil {
			t.Errorf("ParseRef(%q) expected error", in)
		}
	}
}

func TestMarkedID(t *testing.T) {
	tests := []struct {
		peer tg.InputPeerClass
		want int64
	}{
		{&tg.InputPeerUser{UserID: 42}, 42},
		{&tg.InputPeerChat{ChatID: 4567}, -4567},
		{&tg.InputPeerChannel{ChannelID: 1234567890}, -1001234567890},
		{&tg.InputPeerSelf{}, 0},
	}
	for _, tt := range tests {
		if got := markedID(tt.peer); got != tt.want {
			t.Errorf("markedID(%T) = %d, want %d", tt.peer, got, tt.want)
		}
	}
}
