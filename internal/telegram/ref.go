package telegram

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gotd/td/tg"
)

// RefKind says how a group reference is resolved.
type RefKind int

const (
	RefUsername RefKind = iota
	RefInvite
	RefID
)

// channelIDOffset is the offset of marked channel IDs (-100xxxxxxxxxx).
const channelIDOffset = 1_000_000_000_000

// Ref is a parsed group reference from the groups file.
type Ref struct {
	Kind     RefKind
	Username string // RefUsername, without "@"
	Hash     string // RefInvite
	ID       int64  // RefID, marked: -100… for channels, negative for basic chats
}

var linkHosts = []string{"t.me/", "telegram.me/", "telegram.dog/"}

// ParseRef accepts "@name", "name", "https://t.me/name", invite links
// ("t.me/+HASH", "t.me/joinchat/HASH") and marked numeric IDs.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty group reference")
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id == 0 {
			return Ref{}, fmt.Errorf("invalid group id %q", s)
		}
		return Ref{Kind: RefID, ID: id}, nil
	}

	if strings.HasPrefix(s, "@") {
		return usernameRef(s[1:], s)
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	rest = strings.TrimPrefix(rest, "www.")
	for _, host := range linkHosts {
		if !strings.HasPrefix(strings.ToLower(rest), host) {
			continue
		}
		path := rest[len(host):]
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
		path = strings.Trim(path, "/")
		switch {
		case strings.HasPrefix(path, "+"):
			return inviteRef(path[1:], s)
		case strings.HasPrefix(path, "joinchat/"):
			return inviteRef(strings.TrimPrefix(path, "joinchat/"), s)
		}
		path = strings.TrimPrefix(path, "s/")
		if i := strings.IndexByte(path, '/'); i >= 0 {
			path = path[:i]
		}
		return usernameRef(path, s)
	}

	return usernameRef(s, s)
}

func usernameRef(name, raw string) (Ref, error) {
	if len(name) < 4 || len(name) > 32 {
		return Ref{}, fmt.Errorf("invalid username in %q", raw)
	}
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return Ref{}, fmt.Errorf("invalid username in %q", raw)
		}
	}
	return Ref{Kind: RefUsername, Username: name}, nil
}

func inviteRef(hash, raw string) (Ref, error) {
	hash, err := url.PathUnescape(hash)
	if err != nil || hash == "" {
		return Ref{}, fmt.Errorf("invalid invite link %q", raw)
	}
	return Ref{Kind: RefInvite, Hash: hash}, nil
}

// markedID returns the marked ID used in the groups file for peer.
func markedID(peer tg.InputPeerClass) int64 {
	switch p := peer.(type) {
	case *tg.InputPeerUser:
		return p.UserID
	case *tg.InputPeerChat:
		return -p.ChatID
	case *tg.InputPeerChannel:
		return -(channelIDOffset + p.ChannelID)
	default:
		return 0
	}
}
