package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
	"github.com/set-night/subguard/internal/metrics"
)

// Conversation is the intake state machine. Every entry point holds the
// user's session lock for the whole event, so events of one user are
// processed one at a time while different users run concurrently.
type Conversation struct {
	sessions  *SessionStore
	assistant Assistant
	catalog   BrokerLookup
	store     SubmissionStore
	admin     AdminNotifier
	payments  *PaymentService
	metrics   *metrics.Recorder
}

type ConversationDeps struct {
	Sessions  *SessionStore
	Assistant Assistant
	Catalog   BrokerLookup
	Store     SubmissionStore
	Admin     AdminNotifier
	Payments  *PaymentService
	Metrics   *metrics.Recorder
}

func NewConversation(deps ConversationDeps) *Conversation {
	return &Conversation{
		sessions:  deps.Sessions,
		assistant: deps.Assistant,
		catalog:   deps.Catalog,
		store:     deps.Store,
		admin:     deps.Admin,
		payments:  deps.Payments,
		metrics:   deps.Metrics,
	}
}

// Start (re)starts the intake form from the first question.
func (c *Conversation) Start(ctx context.Context, user domain.Sender) []domain.Reply {
	l := c.sessions.Acquire(user.ID)
	defer l.Release()

	from := currentState(l)
	sess := domain.NewSession()
	sess.State = domain.StateEnteringName
	c.commit(l, user.ID, from, sess)

	return []domain.Reply{
		domain.TextReply(textWelcome),
		domain.TextReply(textAskFIO),
	}
}

// Cancel drops everything collected so far and returns the user to idle.
func (c *Conversation) Cancel(ctx context.Context, user domain.Sender) []domain.Reply {
	l := c.sessions.Acquire(user.ID)
	defer l.Release()

	from := currentState(l)
	c.commit(l, user.ID, from, domain.NewSession())

	return []domain.Reply{{Text: textCancelled, Buttons: mainMenu()}}
}

// Menu shows the main menu without touching the session.
func (c *Conversation) Menu(ctx context.Context, user domain.Sender) []domain.Reply {
	return []domain.Reply{{Text: textMenu, Buttons: mainMenu()}}
}

// HandleText routes free text by the current state: the admin relay first,
// then form input, and only from idle to the assistant.
func (c *Conversation) HandleText(ctx context.Context, user domain.Sender, text string) []domain.Reply {
	l := c.sessions.Acquire(user.ID)
	defer l.Release()

	sess := currentSession(l)

	// stickers, photos and other non-text messages arrive with empty text
	if strings.TrimSpace(text) == "" && !sess.State.IsFormStep() {
		return []domain.Reply{domain.TextReply(textTextOnly)}
	}

	if sess.AwaitingAdminMessage {
		return c.relay(ctx, l, user, sess, text)
	}

	switch sess.State {
	case domain.StateAwaitingAdminMessage:
		return c.relay(ctx, l, user, sess, text)
	case domain.StateEnteringName, domain.StateEnteringSource, domain.StateEnteringBank,
		domain.StateEnteringCard, domain.StateEnteringEmail, domain.StateEnteringPhone:
		return c.fillField(ctx, l, user, sess, text)
	case domain.StateIdle, domain.StateDone:
		return c.askAssistant(ctx, user, sess, text)
	default:
		slog.Error("text in unhandled state", "user_id", user.ID, "state", sess.State.String())
		return []domain.Reply{domain.TextReply(textInternalError)}
	}
}

// HandleAction applies a button click. Clicks that the current state does
// not expect return no replies and change nothing.
func (c *Conversation) HandleAction(ctx context.Context, user domain.Sender, a domain.Action) []domain.Reply {
	l := c.sessions.Acquire(user.ID)
	defer l.Release()

	sess := currentSession(l)
	if sess.State != domain.StateIdle && sess.State != domain.StateDone {
		slog.Debug("action ignored in state", "user_id", user.ID, "state", sess.State.String(), "action", a.Kind)
		return nil
	}

	switch a.Kind {
	case domain.ActionStartForm:
		next := domain.NewSession()
		next.State = domain.StateEnteringName
		c.commit(l, user.ID, sess.State, next)
		return []domain.Reply{domain.TextReply(textAskFIO)}

	case domain.ActionContactAdmin:
		next := domain.NewSession()
		next.State = domain.StateAwaitingAdminMessage
		next.AwaitingAdminMessage = true
		c.commit(l, user.ID, sess.State, next)
		return []domain.Reply{domain.TextReply(textAskAdminMsg)}

	case domain.ActionAbout:
		c.commit(l, user.ID, sess.State, domain.Session{State: domain.StateDone})
		return []domain.Reply{domain.TextReply(textAbout)}

	case domain.ActionBrokerSelect:
		entry, ok := c.catalog.ByIndex(a.Index)
		if !ok {
			slog.Warn("unknown catalog index", "user_id", user.ID, "index", a.Index)
			return nil
		}
		return c.brokerDetail(ctx, user.ID, entry)

	case domain.ActionPay:
		return c.pay(ctx, user, a)

	case domain.ActionFree:
		return c.selfService(a.Entity)

	case domain.ActionBack:
		return []domain.Reply{c.payments.PresentChoice(user.ID, a.Entity)}
	}

	slog.Warn("unknown action", "user_id", user.ID, "action", a.Kind)
	return nil
}

// Find looks a service up in the catalog.
func (c *Conversation) Find(ctx context.Context, user domain.Sender, query string) []domain.Reply {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Reply{domain.TextReply(textFindUsage)}
	}

	found := c.catalog.Search(query)
	switch len(found) {
	case 0:
		return []domain.Reply{domain.TextReply(fmt.Sprintf(textBrokerNotFound, query))}
	case 1:
		return c.brokerDetail(ctx, user.ID, found[0])
	default:
		return []domain.Reply{brokerList(found, nil)}
	}
}

func (c *Conversation) fillField(ctx context.Context, l *SessionLock, user domain.Sender, sess domain.Session, text string) []domain.Reply {
	field, _ := domain.FieldForState(sess.State)
	value := NormalizeField(text)

	if err := ValidateField(field, value); err != nil {
		slog.Debug("field rejected", "user_id", user.ID, "state", sess.State.String(), "error", err)
		return []domain.Reply{domain.TextReply(c.correction(ctx, field, value))}
	}

	sess.Fields[field] = value
	if sess.State == domain.StateEnteringPhone {
		return c.complete(ctx, l, user, sess)
	}

	from := sess.State
	sess.State = nextState(from)
	c.commit(l, user.ID, from, sess)
	return []domain.Reply{domain.TextReply(promptFor(sess.State))}
}

// correction asks the assistant to explain a rejected value and falls back to
// the fixed hint on any failure.
func (c *Conversation) correction(ctx context.Context, field domain.Field, value string) string {
	if value == "" {
		return FallbackHint(field)
	}
	if utf8.RuneCountInString(value) > config.MaxFieldLength {
		value = string([]rune(value)[:config.MaxFieldLength])
	}

	askCtx, cancel := context.WithTimeout(ctx, config.AssistantTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Поле: %s\nОжидаемый формат: %s\nВведённое значение: %q",
		field.Label(), fieldFormats[field], value)
	hint, err := c.assistant.Complete(askCtx, correctionSystemPrompt, prompt)
	c.metrics.AssistantCall("correction", err)
	if err != nil {
		slog.Warn("assistant correction failed", "field", field, "error", err)
		return FallbackHint(field)
	}
	if strings.Contains(hint, OffTopicMarker) {
		return FallbackHint(field)
	}
	return "❌ " + hint
}

// complete persists the submission. A failed write leaves the session as it
// was, so resending the phone retries.
func (c *Conversation) complete(ctx context.Context, l *SessionLock, user domain.Sender, sess domain.Session) []domain.Reply {
	sub := domain.SubmissionFromFields(user.ID, sess.Fields)

	storeCtx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	err := c.store.UpsertSubmission(storeCtx, sub)
	cancel()
	c.metrics.Submission(err)
	if err != nil {
		slog.Error("persist submission", "error", err, "user_id", user.ID, "state", sess.State.String())
		return []domain.Reply{domain.TextReply(textSaveFailed)}
	}

	c.commit(l, user.ID, sess.State, domain.Session{State: domain.StateDone})
	slog.Info("submission saved", "user_id", user.ID, "source", sub.Source)

	notifyCtx, cancel := context.WithTimeout(ctx, config.AdminSendTimeout)
	defer cancel()
	if err := c.admin.NotifySubmission(notifyCtx, user, sub); err != nil {
		slog.Error("notify admin about submission", "error", err, "user_id", user.ID)
	}

	return []domain.Reply{
		domain.TextReply(textSaved + "\n\n" + summary(sub)),
		c.payments.PresentChoice(user.ID, sub.Source),
	}
}

// relay forwards the message verbatim. The one-shot flag is cleared whether
// or not the admin channel accepted it.
func (c *Conversation) relay(ctx context.Context, l *SessionLock, user domain.Sender, sess domain.Session, text string) []domain.Reply {
	sendCtx, cancel := context.WithTimeout(ctx, config.AdminSendTimeout)
	err := c.admin.RelayMessage(sendCtx, user, text)
	cancel()
	c.metrics.AdminRelay(err)

	from := sess.State
	sess.AwaitingAdminMessage = false
	sess.State = domain.StateIdle
	c.commit(l, user.ID, from, sess)

	if err != nil {
		slog.Error("relay message to admin", "error", err, "user_id", user.ID, "state", from.String())
		return []domain.Reply{{Text: textAdminFailed, Buttons: mainMenu()}}
	}
	return []domain.Reply{domain.TextReply(textAdminRelayed)}
}

// askAssistant answers a free question. It never changes the session.
func (c *Conversation) askAssistant(ctx context.Context, user domain.Sender, sess domain.Session, text string) []domain.Reply {
	askCtx, cancel := context.WithTimeout(ctx, config.AssistantTimeout)
	defer cancel()

	answer, err := c.assistant.Complete(askCtx, routerSystemPrompt, text)
	c.metrics.AssistantCall("router", err)
	if err != nil {
		slog.Warn("assistant request failed", "error", err, "user_id", user.ID, "state", sess.State.String())
		return []domain.Reply{{Text: textAssistantDown, Buttons: mainMenu()}}
	}
	if strings.Contains(answer, OffTopicMarker) {
		return []domain.Reply{{Text: textOffTopic, Buttons: mainMenu()}}
	}
	return []domain.Reply{domain.TextReply(answer)}
}

func (c *Conversation) pay(ctx context.Context, user domain.Sender, a domain.Action) []domain.Reply {
	err := c.payments.IssueInvoice(ctx, user.ID, a.Currency, a.Amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return []domain.Reply{{
			Text:    textFillFormFirst,
			Buttons: [][]domain.Button{{domain.ActionButton(buttonStartForm, domain.StartFormAction())}},
		}}
	case errors.Is(err, domain.ErrAlreadyPaid):
		return []domain.Reply{domain.TextReply(textAlreadyPaid)}
	case errors.Is(err, domain.ErrInvoiceOutstanding):
		return []domain.Reply{domain.TextReply(textInvoicePending)}
	case errors.Is(err, domain.ErrUnknownCurrency):
		slog.Warn("pay action for disabled currency", "user_id", user.ID, "currency", a.Currency)
		return nil
	default:
		slog.Error("issue invoice", "error", err, "user_id", user.ID, "currency", a.Currency)
		return []domain.Reply{domain.TextReply(textInvoiceFailed)}
	}
}

func (c *Conversation) selfService(entity string) []domain.Reply {
	back := []domain.Button{domain.ActionButton(buttonBack, domain.BackAction(entity))}

	found := c.catalog.Search(entity)
	switch len(found) {
	case 0:
		return []domain.Reply{{
			Text:    fmt.Sprintf(textBrokerNotFound, entity) + "\n\n" + textSelfGeneric,
			Buttons: [][]domain.Button{back},
		}}
	case 1:
		reply := detailReply(found[0])
		reply.Text = fmt.Sprintf(textSelfService, reply.Text)
		reply.Buttons = append(reply.Buttons, back)
		return []domain.Reply{reply}
	default:
		return []domain.Reply{brokerList(found, back)}
	}
}

// brokerDetail shows a catalog entry, followed by the payment choice when the
// user has an unpaid submission.
func (c *Conversation) brokerDetail(ctx context.Context, userID int64, entry domain.BrokerEntry) []domain.Reply {
	replies := []domain.Reply{detailReply(entry)}

	storeCtx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()
	sub, err := c.store.GetSubmission(storeCtx, userID)
	switch {
	case err == nil && !sub.IsPaid():
		replies = append(replies, c.payments.PresentChoice(userID, entry.Name))
	case err != nil && !errors.Is(err, domain.ErrSubmissionNotFound):
		slog.Error("get submission for broker view", "error", err, "user_id", userID)
	}
	return replies
}

func (c *Conversation) commit(l *SessionLock, userID int64, from domain.State, next domain.Session) {
	l.Set(next)
	if from != next.State {
		c.metrics.Transition(from.String(), next.State.String())
		slog.Debug("state transition", "user_id", userID, "from", from.String(), "to", next.State.String())
	}
}

// currentSession reads the session, treating absence as Done.
func currentSession(l *SessionLock) domain.Session {
	sess := l.Get()
	if !l.Exists() {
		sess.State = domain.StateDone
	}
	return sess
}

func currentState(l *SessionLock) domain.State {
	return currentSession(l).State
}

func nextState(s domain.State) domain.State {
	switch s {
	case domain.StateEnteringName:
		return domain.StateEnteringSource
	case domain.StateEnteringSource:
		return domain.StateEnteringBank
	case domain.StateEnteringBank:
		return domain.StateEnteringCard
	case domain.StateEnteringCard:
		return domain.StateEnteringEmail
	case domain.StateEnteringEmail:
		return domain.StateEnteringPhone
	default:
		return domain.StateDone
	}
}

func promptFor(s domain.State) string {
	switch s {
	case domain.StateEnteringName:
		return textAskFIO
	case domain.StateEnteringSource:
		return textAskSource
	case domain.StateEnteringBank:
		return textAskBank
	case domain.StateEnteringCard:
		return textAskCard
	case domain.StateEnteringEmail:
		return textAskEmail
	case domain.StateEnteringPhone:
		return textAskPhone
	default:
		return textMenu
	}
}

func mainMenu() [][]domain.Button {
	return [][]domain.Button{
		{domain.ActionButton(buttonStartForm, domain.StartFormAction())},
		{domain.ActionButton(buttonContactAdmin, domain.ContactAdminAction())},
		{domain.ActionButton(buttonAbout, domain.AboutAction())},
	}
}

func detailReply(e domain.BrokerEntry) domain.Reply {
	reply := domain.Reply{
		Text: fmt.Sprintf(textBrokerDetail, e.Name, e.UnsubscribeLink, e.Email, e.Phone),
	}
	if strings.HasPrefix(e.UnsubscribeLink, "https://") || strings.HasPrefix(e.UnsubscribeLink, "http://") {
		reply.Buttons = [][]domain.Button{{domain.URLButton(buttonUnsubscribe, e.UnsubscribeLink)}}
	}
	return reply
}

func brokerList(entries []domain.BrokerEntry, extra []domain.Button) domain.Reply {
	rows := make([][]domain.Button, 0, len(entries)+1)
	for _, e := range entries {
		rows = append(rows, []domain.Button{domain.ActionButton(e.Name, domain.BrokerSelectAction(e.Index))})
	}
	if len(extra) > 0 {
		rows = append(rows, extra)
	}
	return domain.Reply{Text: textBrokerList, Buttons: rows}
}

func summary(sub domain.Submission) string {
	return fmt.Sprintf("ФИО: %s\nСервис: %s\nБанк: %s\nКарта: %s\nEmail: %s\nТелефон: %s",
		sub.FIO, sub.Source, sub.Bank, sub.Card, sub.Email, sub.Phone)
}
