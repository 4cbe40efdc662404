package telegram

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/html"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"

	"github.com/danhigham/tgcast/internal/domain"
)

// target is a resolved group.
type target struct {
	peer    tg.InputPeerClass
	channel *tg.InputChannel // nil unless peer is a channel or supergroup
}

var _ Client = (*GotdClient)(nil)

// GotdClient implements the Client interface using gotd/td.
type GotdClient struct {
	apiID       int
	apiHash     string
	sessionPath string
	parseMode   ParseMode
	authFlow    auth.UserAuthenticator
	logger      *zap.Logger

	client *telegram.Client
	api    *tg.Client
	sender *message.Sender
	self   *tg.User

	byID  map[int64]target  // marked ID -> target, from dialogs
	byRef map[string]target // group reference -> target
	mu    sync.Mutex
}

func NewGotdClient(apiID int, apiHash, sessionPath string, mode ParseMode, authFlow auth.UserAuthenticator, logger *zap.Logger) *GotdClient {
	return &GotdClient{
		apiID:       apiID,
		apiHash:     apiHash,
		sessionPath: sessionPath,
		parseMode:   mode,
		authFlow:    authFlow,
		logger:      logger,
		byID:        make(map[int64]target),
		byRef:       make(map[string]target),
	}
}

// Run connects, authenticates if necessary and calls fn with a ready
// client. The connection is closed when fn returns.
func (c *GotdClient) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		Logger:         c.logger.Named("mtproto"),
		SessionStorage: &session.FileStorage{Path: c.sessionPath},
	})

	return c.client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(c.authFlow, auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth: %w", err)
		}

		self, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		c.self = self

		c.api = c.client.API()
		c.sender = message.NewSender(c.api)
		c.logger.Info("Logged in", zap.Int64("user_id", self.ID), zap.String("username", self.Username))

		// Dialogs are only needed for numeric group IDs.
		if n, err := c.loadDialogs(ctx); err != nil {
			c.logger.Warn("Failed to load dialogs", zap.Error(err))
		} else {
			c.logger.Debug("Loaded dialogs", zap.Int("count", n))
		}

		return fn(ctx)
	})
}

// Self returns the logged-in user, or nil before Run has authenticated.
func (c *GotdClient) Self() *tg.User {
	return c.self
}

// IsMember reports whether the current account is in group.
func (c *GotdClient) IsMember(ctx context.Context, group string) (bool, error) {
	if c.api == nil {
		return false, errNotConnected
	}
	ref, err := ParseRef(group)
	if err != nil {
		return false, err
	}

	if ref.Kind == RefInvite {
		return c.inviteMembership(ctx, group, ref.Hash)
	}

	t, err := c.resolve(ctx, group, ref)
	if err != nil {
		return false, err
	}
	switch {
	case t.channel != nil:
		res, err := c.api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
			Channel:     t.channel,
			Participant: &tg.InputPeerSelf{},
		})
		if err != nil {
			return false, mapError(err)
		}
		switch p := res.Participant.(type) {
		case *tg.ChannelParticipantLeft:
			return false, nil
		case *tg.ChannelParticipantBanned:
			return !p.Left, nil
		}
		return true, nil
	case isChat(t.peer):
		return c.inBasicChat(ctx, t.peer.(*tg.InputPeerChat).ChatID)
	default:
		// Users and bots need no membership.
		return true, nil
	}
}

// Join joins group through its public username or invite link.
func (c *GotdClient) Join(ctx context.Context, group string) error {
	if c.api == nil {
		return errNotConnected
	}
	ref, err := ParseRef(group)
	if err != nil {
		return err
	}

	if ref.Kind == RefInvite {
		upd, err := c.api.MessagesImportChatInvite(ctx, ref.Hash)
		if err != nil {
			if isAlreadyParticipant(err) {
				return nil
			}
			return mapError(err)
		}
		for _, chat := range updatesChats(upd) {
			if t, ok := chatTarget(chat); ok {
				c.cacheRef(group, t)
				break
			}
		}
		return nil
	}

	t, err := c.resolve(ctx, group, ref)
	if err != nil {
		return err
	}
	if t.channel == nil {
		return fmt.Errorf("%s: only channels and supergroups can be joined without an invite link", group)
	}
	if _, err := c.api.ChannelsJoinChannel(ctx, t.channel); err != nil {
		if isAlreadyParticipant(err) {
			return nil
		}
		return mapError(err)
	}
	return nil
}

// Send sends text to group using the configured parse mode.
func (c *GotdClient) Send(ctx context.Context, group, text string) error {
	if c.api == nil {
		return errNotConnected
	}
	ref, err := ParseRef(group)
	if err != nil {
		return err
	}

	var t target
	if ref.Kind == RefInvite {
		t, err = c.inviteTarget(ctx, group, ref.Hash)
	} else {
		t, err = c.resolve(ctx, group, ref)
	}
	if err != nil {
		return err
	}

	b := c.sender.To(t.peer)
	switch c.parseMode {
	case ParseHTML:
		_, err = b.StyledText(ctx, html.String(nil, text))
	default:
		_, err = b.Text(ctx, text)
	}
	return mapError(err)
}

// resolve looks up a username or numeric reference, caching the result.
func (c *GotdClient) resolve(ctx context.Context, group string, ref Ref) (target, error) {
	if t, ok := c.findRef(group); ok {
		return t, nil
	}

	switch ref.Kind {
	case RefID:
		t, ok := c.findID(ref.ID)
		if !ok {
			return target{}, fmt.Errorf("unknown peer %d: not found in dialogs", ref.ID)
		}
		c.cacheRef(group, t)
		return t, nil
	case RefUsername:
		peer, err := c.sender.Resolve("@" + ref.Username).AsInputPeer(ctx)
		if err != nil {
			return target{}, fmt.Errorf("resolve %s: %w", group, mapError(err))
		}
		t := target{peer: peer}
		if ch, ok := peer.(*tg.InputPeerChannel); ok {
			t.channel = &tg.InputChannel{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash}
		}
		c.cacheRef(group, t)
		return t, nil
	default:
		return target{}, fmt.Errorf("unsupported reference %q", group)
	}
}

// inBasicChat queries the left flag of a legacy group.
func (c *GotdClient) inBasicChat(ctx context.Context, chatID int64) (bool, error) {
	res, err := c.api.MessagesGetChats(ctx, []int64{chatID})
	if err != nil {
		return false, mapError(err)
	}
	for _, chat := range res.GetChats() {
		switch ch := chat.(type) {
		case *tg.Chat:
			if ch.ID == chatID {
				return !ch.Left && !ch.Deactivated, nil
			}
		case *tg.ChatForbidden:
			if ch.ID == chatID {
				return false, domain.ErrNotParticipant
			}
		}
	}
	return false, fmt.Errorf("chat %d not returned by server", chatID)
}

func (c *GotdClient) inviteMembership(ctx context.Context, group, hash string) (bool, error) {
	inv, err := c.api.MessagesCheckChatInvite(ctx, hash)
	if err != nil {
		return false, mapError(err)
	}
	switch v := inv.(type) {
	case *tg.ChatInviteAlready:
		if t, ok := chatTarget(v.Chat); ok {
			c.cacheRef(group, t)
		}
		return true, nil
	default:
		return false, nil
	}
}

func (c *GotdClient) inviteTarget(ctx context.Context, group, hash string) (target, error) {
	if t, ok := c.findRef(group); ok {
		return t, nil
	}
	member, err := c.inviteMembership(ctx, group, hash)
	if err != nil {
		return target{}, err
	}
	t, ok := c.findRef(group)
	if !member || !ok {
		return target{}, fmt.Errorf("%s: not a member of the invited chat", group)
	}
	return t, nil
}

// loadDialogs caches every dialog peer by its marked ID.
func (c *GotdClient) loadDialogs(ctx context.Context) (int, error) {
	iter := dialogs.NewQueryBuilder(c.api).GetDialogs().BatchSize(100).Iter()

	n := 0
	for iter.Next(ctx) {
		elem := iter.Value()
		if elem.Peer == nil {
			continue
		}

		t := target{peer: elem.Peer}
		if p, ok := elem.Peer.(*tg.InputPeerChannel); ok {
			t.channel = &tg.InputChannel{ChannelID: p.ChannelID, AccessHash: p.AccessHash}
		}

		if id := markedID(elem.Peer); id != 0 {
			c.cacheID(id, t)
			n++
		}
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("iterate dialogs: %w", err)
	}
	return n, nil
}

func (c *GotdClient) findRef(group string) (target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.byRef[group]
	return t, ok
}

func (c *GotdClient) cacheRef(group string, t target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byRef[group] = t
}

func (c *GotdClient) findID(id int64) (target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.byID[id]
	return t, ok
}

func (c *GotdClient) cacheID(id int64, t target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[id] = t
}

// chatTarget converts a chat from an RPC result into a target.
func chatTarget(chat tg.ChatClass) (target, bool) {
	switch ch := chat.(type) {
	case *tg.Chat:
		return target{peer: &tg.InputPeerChat{ChatID: ch.ID}}, true
	case *tg.Channel:
		return target{
			peer:    &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash},
			channel: &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash},
		}, true
	default:
		return target{}, false
	}
}

// updatesChats extracts the chats attached to an updates result.
func updatesChats(upd tg.UpdatesClass) []tg.ChatClass {
	switch u := upd.(type) {
	case *tg.Updates:
		return u.Chats
	case *tg.UpdatesCombined:
		return u.Chats
	default:
		return nil
	}
}

func isChat(peer tg.InputPeerClass) bool {
	_, ok := peer.(*tg.InputPeerChat)
	return ok
}
