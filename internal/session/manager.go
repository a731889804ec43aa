// File: internal/session/manager.go

// Package session owns the in-memory state of the doubt-solving UI: which
// conversation is active, what is in it, and how an exchange with the tutor
// model is reconciled against the persistence collaborator. It is a library
// consumed by a UI layer; collaborator failures are recovered here and
// surfaced only as conversation state, never as returned errors.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/athenaai/go-tutor/internal/domain"
	"github.com/athenaai/go-tutor/internal/markdown"
	"github.com/athenaai/go-tutor/internal/services"
)

const (
	defaultSubject = "Physics"
	defaultTitle   = "Physics - Introduction"
	defaultPreview = "Start a new conversation..."
	welcomeText    = "Hello! I'm your AI tutor. What would you like to learn about today?"
	errorReplyText = "Sorry, I encountered an error while processing your request. Please try again."

	previewLimit = 100
)

func welcomeFor(subject string) string {
	return fmt.Sprintf("Hello! I'm your AI tutor for %s. What would you like to learn about today?", subject)
}

// Manager is the single source of truth for conversation state. Every
// mutation of the conversation list or the active pointer goes through its
// operations; the mutex keeps state transitions (promotion in particular)
// atomic, so no observer sees a partially-migrated identity.
type Manager struct {
	store  Store
	ai     CompletionProvider
	images ImageProvider
	auth   AuthProvider
	logger services.Logger

	notices *Notifier
	now     func() time.Time

	mu            sync.Mutex
	conversations []*conversation
	active        ConversationID
	fetching      map[uint]bool // per-id fetch debounce
}

func NewManager(store Store, ai CompletionProvider, images ImageProvider, auth AuthProvider, logger services.Logger) (*Manager, error) {
	if store == nil {
		return nil, NewValidationError("constructor", "store is required")
	}
	if ai == nil {
		return nil, NewValidationError("constructor", "completion provider is required")
	}
	if images == nil {
		return nil, NewValidationError("constructor", "image provider is required")
	}
	if auth == nil {
		return nil, NewValidationError("constructor", "auth provider is required")
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	m := &Manager{
		store:    store,
		ai:       ai,
		images:   images,
		auth:     auth,
		logger:   logger,
		notices:  NewNotifier(),
		now:      time.Now,
		fetching: make(map[uint]bool),
	}
	m.resetToDefaultLocked()
	return m, nil
}

// Notices exposes the manager's notification registry.
func (m *Manager) Notices() *Notifier { return m.notices }

// Active returns the identity of the active conversation.
func (m *Manager) Active() ConversationID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// ActiveConversation returns a snapshot of the active conversation.
func (m *Manager) ActiveConversation() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.find(m.active); c != nil {
		return c.snapshot(), true
	}
	return Snapshot{}, false
}

// Conversation returns a snapshot of the conversation with the given id.
func (m *Manager) Conversation(id ConversationID) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.find(id); c != nil {
		return c.snapshot(), true
	}
	return Snapshot{}, false
}

// LoadHistory fetches the persisted conversation list for the signed-in user
// and activates the most recently updated one. Unauthenticated users and
// fetch failures both fall back to a fresh default conversation: a transient
// error must never block the user from chatting.
func (m *Manager) LoadHistory(ctx context.Context) {
	userID, authed := m.auth.CurrentUser(ctx)
	if !authed {
		m.mu.Lock()
		m.resetToDefaultLocked()
		m.mu.Unlock()
		return
	}

	summaries, err := m.store.ListDoubts(ctx, userID)
	if err != nil {
		m.logger.Warn("history fetch failed, falling back to default conversation", "error", err.Error())
		m.mu.Lock()
		m.resetToDefaultLocked()
		m.mu.Unlock()
		return
	}
	if len(summaries) == 0 {
		m.mu.Lock()
		m.resetToDefaultLocked()
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.conversations = m.conversations[:0]
	for _, s := range summaries {
		m.conversations = append(m.conversations, &conversation{
			id:        PersistedID(s.ID),
			title:     s.Title,
			subject:   s.Subject,
			preview:   s.Preview,
			updatedAt: s.UpdatedAt,
		})
	}
	sort.SliceStable(m.conversations, func(i, j int) bool {
		return m.conversations[i].updatedAt.After(m.conversations[j].updatedAt)
	})
	mostRecent := m.conversations[0].id
	m.active = mostRecent
	m.mu.Unlock()

	m.Select(ctx, mostRecent)
}

// Select makes the conversation with the given id active. Materialized
// conversations switch with no I/O; otherwise the full conversation is
// fetched first. Re-selecting a conversation whose fetch is already in
// flight issues no duplicate request.
func (m *Manager) Select(ctx context.Context, id ConversationID) {
	m.mu.Lock()
	conv := m.find(id)
	if conv == nil {
		m.mu.Unlock()
		m.logger.Warn("select of unknown conversation", "conversation", id.String())
		return
	}
	if conv.loaded {
		m.active = id
		m.mu.Unlock()
		return
	}
	record, ok := id.Persisted()
	if !ok {
		// Ephemeral conversations are always materialized at creation.
		m.active = id
		conv.loaded = true
		m.mu.Unlock()
		return
	}
	if m.fetching[record] {
		m.mu.Unlock()
		return
	}
	m.fetching[record] = true
	m.mu.Unlock()

	userID, authed := m.auth.CurrentUser(ctx)
	if !authed {
		m.mu.Lock()
		delete(m.fetching, record)
		m.mu.Unlock()
		return
	}

	rec, err := m.store.GetDoubt(ctx, userID, record)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fetching, record)
	if err != nil {
		m.logger.Warn("conversation fetch failed", "doubt_id", record, "error", err.Error())
		return
	}
	conv = m.find(id)
	if conv == nil {
		// Deleted while the fetch was in flight.
		return
	}
	conv.messages = conv.messages[:0]
	for _, sm := range rec.Messages {
		conv.messages = append(conv.messages, messageFromStored(sm))
	}
	conv.title = rec.Title
	conv.subject = rec.Subject
	conv.preview = rec.Preview
	conv.updatedAt = rec.UpdatedAt
	conv.loaded = true
	m.active = id
}

// Send runs one exchange with the tutor model against the active
// conversation. Empty input and a missing active conversation are rejected
// silently; a conversation that is already composing rejects the send so a
// single conversation never has two replies in flight. The in-flight result
// is applied to the conversation the send started on, by identity, even if
// the user navigates away meanwhile.
func (m *Manager) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	conv := m.find(m.active)
	if conv == nil {
		m.mu.Unlock()
		return
	}
	if conv.composing {
		id := conv.id.String()
		m.mu.Unlock()
		m.logger.Warn("send rejected, a reply is already in flight", "conversation", id)
		return
	}
	now := m.now()
	conv.messages = append(conv.messages, UserMessage{LocalID: uuid.NewString(), Text: text, At: now})
	conv.preview = truncate(text, previewLimit)
	conv.updatedAt = now
	conv.composing = true
	id := conv.id
	subject := conv.subject
	m.mu.Unlock()

	userID, authed := m.auth.CurrentUser(ctx)

	// Best-effort persistence of the user message for already-persisted
	// conversations. It runs while the model call is in flight, but the
	// assistant append below waits for it so stored order stays user-then-
	// assistant. A failure here is logged only: the message is already
	// visible from the optimistic append.
	userSaved := make(chan struct{})
	record, persisted := id.Persisted()
	if authed && persisted {
		bg := context.WithoutCancel(ctx)
		go func() {
			defer close(userSaved)
			if _, err := m.store.AppendMessage(bg, record, domain.MessageTypeUser, text, ""); err != nil {
				m.logger.Warn("user message persistence failed", "doubt_id", record, "error", err.Error())
			}
		}()
	} else {
		close(userSaved)
	}

	reply, err := m.ai.Ask(ctx, text, subject)
	if err != nil {
		m.logger.Error("inference call failed", "conversation", id.String(), "error", err.Error())
		m.mu.Lock()
		conv.messages = append(conv.messages, AssistantMessage{LocalID: uuid.NewString(), Text: errorReplyText, At: m.now()})
		conv.composing = false
		m.mu.Unlock()
		return
	}

	content, imageURL, heading := m.resolveReply(ctx, reply, subject)

	asst := AssistantMessage{LocalID: uuid.NewString(), Text: content, ImageURL: imageURL, At: m.now()}
	m.mu.Lock()
	conv.messages = append(conv.messages, asst)
	conv.title = heading
	conv.updatedAt = asst.At
	m.mu.Unlock()

	if authed {
		m.reconcile(context.WithoutCancel(ctx), conv, id, userID, text, asst, heading, subject, userSaved)
	}

	m.mu.Lock()
	conv.composing = false
	m.mu.Unlock()
}

// resolveReply post-processes a raw model reply: resolves at most one image
// directive (a failed generation is degraded success, the directive is
// stripped either way, including blocks with no usable prompt), repairs
// tables, and infers the conversation heading.
func (m *Manager) resolveReply(ctx context.Context, raw, subject string) (content, imageURL, heading string) {
	if markdown.HasImageDirective(raw) {
		if prompt, found := markdown.ExtractImagePrompt(raw); found {
			url, err := m.images.Generate(ctx, prompt)
			if err != nil {
				m.logger.Warn("image generation failed, continuing without image", "error", err.Error())
			} else {
				imageURL = url
			}
		}
		raw = markdown.StripImageDirectives(raw)
	}

	content = markdown.Process(raw)
	heading, found := markdown.ExtractHeading(content)
	if !found {
		heading = subject + " Doubt"
	}
	return content, imageURL, heading
}

// reconcile maps the finished exchange onto the persistence collaborator.
// For an unsaved-default conversation this is the promotion point: the
// conversation gains its durable identity in one atomic repoint.
func (m *Manager) reconcile(ctx context.Context, conv *conversation, id ConversationID, userID uint, userText string, asst AssistantMessage, heading, subject string, userSaved <-chan struct{}) {
	switch id.Kind() {
	case KindPersisted:
		record, _ := id.Persisted()
		<-userSaved
		if _, err := m.store.AppendMessage(ctx, record, domain.MessageTypeAssistant, asst.Text, asst.ImageURL); err != nil {
			m.logger.Warn("assistant message persistence failed", "doubt_id", record, "error", err.Error())
		}
		if err := m.store.UpdateDoubt(ctx, userID, record, heading, truncate(userText, previewLimit)); err != nil {
			m.logger.Warn("doubt update failed", "doubt_id", record, "error", err.Error())
		}

	case KindDefault:
		record, err := m.store.CreateDoubt(ctx, userID, heading, subject, truncate(userText, previewLimit))
		if err != nil {
			// The conversation stays unsaved and promotion is retried on the
			// next send; the in-memory id never references a record that was
			// not created.
			m.logger.Error("promotion failed, conversation stays unsaved", "error", err.Error())
			m.notices.Publish(Notice{
				Title:       "Conversation not saved",
				Description: "This conversation could not be saved. Saving will be retried on your next message.",
			})
			return
		}
		if _, err := m.store.AppendMessage(ctx, record, domain.MessageTypeUser, userText, ""); err != nil {
			m.logger.Warn("user message persistence failed during promotion", "doubt_id", record, "error", err.Error())
		}
		if _, err := m.store.AppendMessage(ctx, record, domain.MessageTypeAssistant, asst.Text, asst.ImageURL); err != nil {
			m.logger.Warn("assistant message persistence failed during promotion", "doubt_id", record, "error", err.Error())
		}

		m.mu.Lock()
		conv.id = PersistedID(record)
		if m.active == id {
			m.active = conv.id
		}
		m.mu.Unlock()

	case KindLocal:
		// Local-only conversations are never persisted.
	}
}

// Create allocates a new conversation for the chosen subject, seeded with the
// deterministic welcome message, and makes it active. It is persisted for a
// signed-in user and local-only otherwise; a store failure degrades to a
// local-only conversation rather than blocking the user.
func (m *Manager) Create(ctx context.Context, subject string) ConversationID {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = defaultSubject
	}
	title := subject + " Chat"
	welcome := welcomeFor(subject)

	id := NewLocalID()
	userID, authed := m.auth.CurrentUser(ctx)
	if authed {
		record, err := m.store.CreateDoubt(ctx, userID, title, subject, defaultPreview)
		if err != nil {
			m.logger.Error("doubt creation failed, creating local-only conversation", "error", err.Error())
			m.notices.Publish(Notice{
				Title:       "Conversation not saved",
				Description: "The new chat could not be saved and is available on this device only.",
			})
		} else {
			if _, err := m.store.AppendMessage(ctx, record, domain.MessageTypeAssistant, welcome, ""); err != nil {
				m.logger.Warn("welcome message persistence failed", "doubt_id", record, "error", err.Error())
			}
			id = PersistedID(record)
		}
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = append(m.conversations, &conversation{
		id:        id,
		title:     title,
		subject:   subject,
		preview:   defaultPreview,
		messages:  []Message{AssistantMessage{LocalID: uuid.NewString(), Text: welcome, At: now}},
		updatedAt: now,
		loaded:    true,
	})
	m.active = id
	return id
}

// Delete removes a conversation. The caller is responsible for user
// confirmation; the manager never invokes this implicitly. Persisted
// conversations are removed from the store first (cascading to their
// messages); if the deleted conversation was active, the most recently
// updated remaining conversation becomes active, else a fresh default.
func (m *Manager) Delete(ctx context.Context, id ConversationID) {
	if record, ok := id.Persisted(); ok {
		userID, authed := m.auth.CurrentUser(ctx)
		if authed {
			if err := m.store.DeleteDoubt(ctx, userID, record); err != nil {
				m.logger.Error("doubt deletion failed", "doubt_id", record, "error", err.Error())
				m.notices.Publish(Notice{
					Title:       "Delete failed",
					Description: "The conversation could not be deleted. Please try again.",
				})
				return
			}
		}
	}

	m.mu.Lock()
	idx := -1
	for i, c := range m.conversations {
		if c.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)
	if m.active != id {
		m.mu.Unlock()
		return
	}
	if len(m.conversations) == 0 {
		m.resetToDefaultLocked()
		m.mu.Unlock()
		return
	}
	fallback := m.conversations[0]
	for _, c := range m.conversations[1:] {
		if c.updatedAt.After(fallback.updatedAt) {
			fallback = c
		}
	}
	fid := fallback.id
	m.active = fid
	m.mu.Unlock()

	m.Select(ctx, fid)
}

// resetToDefaultLocked replaces all state with a single default conversation.
// Callers must hold m.mu.
func (m *Manager) resetToDefaultLocked() {
	now := m.now()
	def := &conversation{
		id:      DefaultID(),
		title:   defaultTitle,
		subject: defaultSubject,
		preview: defaultPreview,
		messages: []Message{
			AssistantMessage{LocalID: uuid.NewString(), Text: welcomeText, At: now},
		},
		updatedAt: now,
		loaded:    true,
	}
	m.conversations = []*conversation{def}
	m.active = def.id
}

func (m *Manager) find(id ConversationID) *conversation {
	for _, c := range m.conversations {
		if c.id == id {
			return c
		}
	}
	return nil
}

func messageFromStored(sm StoredMessage) Message {
	if sm.Role == domain.MessageTypeUser {
		return UserMessage{LocalID: uuid.NewString(), Text: sm.Content, At: sm.CreatedAt}
	}
	return AssistantMessage{LocalID: uuid.NewString(), Text: sm.Content, ImageURL: sm.ImageURL, At: sm.CreatedAt}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
