package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"household-shopping/internal/apperr"
	"household-shopping/internal/config"
	"household-shopping/internal/identity"
	"household-shopping/internal/metrics"
	"household-shopping/internal/session"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

// sender is the part of the Telegram API the bot talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MetricsStore records bot commands and serves the admin report.
type MetricsStore interface {
	Record(ctx context.Context, m metrics.OperationMetric) error
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	GetOperationSummary(ctx context.Context, days int) ([]metrics.OperationSummary, error)
}

// SessionStores returns the client-local store of one user in one chat.
type SessionStores func(chatID, userID int64) session.KeyValueStore

// checklistMessageKey remembers the last checklist message sent to a user as
// "<messageID>:<listID>". Only that message's buttons are live.
const checklistMessageKey = "telegram.checklistMessage"

// Deps are the services the bot drives.
type Deps struct {
	Templates    *templates.Service
	Lists        *shopping.Engine
	Sessions     SessionStores
	Metrics      MetricsStore
	// DatabasePath is the SQLite file sized in the /metrics report.
	DatabasePath string
}

// Bot serves Telegram webhook updates for the shopping lists.
type Bot struct {
	api     sender
	deps    Deps
	allowed []int64
	admin   int64
}

// NewBot connects to Telegram and registers the webhook, retrying with
// exponential backoff.
func NewBot(ctx context.Context, cfg *config.Config, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	slog.Info("Authorized on telegram", "account", api.Self.UserName)

	if err := registerWebhook(ctx, api, cfg.TelegramWebhookURL, backoff.NewExponentialBackOff()); err != nil {
		return nil, err
	}
	return newBot(api, cfg, deps), nil
}

func newBot(api sender, cfg *config.Config, deps Deps) *Bot {
	return &Bot{
		api:     api,
		deps:    deps,
		allowed: cfg.TelegramAllowedUserIDs,
		admin:   cfg.AdminTelegramID,
	}
}

func registerWebhook(ctx context.Context, api sender, url string, b backoff.BackOff) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url %s: %w", url, err)
	}
	resp, err := backoff.Retry(ctx, func() (*tgbotapi.APIResponse, error) {
		return api.Request(wh)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(5))
	if err != nil {
		return fmt.Errorf("failed to set webhook to %s: %w", url, err)
	}
	slog.Info("Webhook set", "description", resp.Description)
	return nil
}

// ServeHTTP handles one webhook update. Telegram always gets 200 back so it
// does not redeliver updates we chose to ignore.
func (b *Bot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		slog.Warn("Error parsing update", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}
	b.HandleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

// HandleUpdate dispatches a message command or a checklist button press.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if q.From == nil || q.Message == nil || !b.isAllowed(q.From) {
			return
		}
		b.handleCallbackQuery(withUser(ctx, q.From), q)
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || !b.isAllowed(msg.From) {
			return
		}
		b.processMessage(withUser(ctx, msg.From), msg)
	}
}

func withUser(ctx context.Context, u *tgbotapi.User) context.Context {
	return identity.WithUserID(ctx, fmt.Sprintf("tg:%d", u.ID))
}

func (b *Bot) isAllowed(u *tgbotapi.User) bool {
	if slices.Contains(b.allowed, u.ID) {
		return true
	}
	slog.Warn("⚠️ Unauthorized access attempt", "user_id", u.ID, "username", u.UserName)
	return false
}

func (b *Bot) tracker(store session.KeyValueStore) *session.Tracker {
	return session.NewTracker(store, b.deps.Lists)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.reply(msg.Chat.ID, helpText)
		return
	}

	cmd := msg.Command()
	start := time.Now()
	err := b.runCommand(ctx, msg, cmd)
	b.record(ctx, "tg /"+cmd, start, err)

	if err != nil {
		b.reportError(msg.Chat.ID, cmd, err)
	}
}

func (b *Bot) runCommand(ctx context.Context, msg *tgbotapi.Message, cmd string) error {
	chatID := msg.Chat.ID
	arg := strings.TrimSpace(msg.CommandArguments())
	store := b.deps.Sessions(chatID, msg.From.ID)

	switch cmd {
	case "start", "help":
		b.reply(chatID, helpText)
		return nil
	case "lists":
		lists, err := b.deps.Lists.ListMine(ctx)
		if err != nil {
			return err
		}
		b.reply(chatID, FormatLists(lists))
		return nil
	case "templates":
		list, err := b.deps.Templates.ListTemplates(ctx)
		if err != nil {
			return err
		}
		b.reply(chatID, FormatTemplates(list))
		return nil
	case "ready":
		if arg == "" {
			return apperr.Validation("telegram.ready", "usage: /ready <list id>")
		}
		l, err := b.deps.Lists.MarkReady(ctx, arg)
		if err != nil {
			return err
		}
		b.reply(chatID, fmt.Sprintf("✅ *%s* is ready for shopping.", escape(l.Name)))
		return nil
	case "shop":
		if arg == "" {
			return apperr.Validation("telegram.shop", "usage: /shop <list id>")
		}
		if _, err := b.tracker(store).Begin(ctx, arg); err != nil {
			return err
		}
		return b.sendChecklist(ctx, store, chatID, arg)
	case "current":
		l, err := b.tracker(store).Active(ctx)
		if err != nil {
			return err
		}
		if l == nil {
			b.reply(chatID, "_No active list._ Use /shop <list id> to start.")
			return nil
		}
		return b.sendChecklist(ctx, store, chatID, l.ID)
	case "done":
		l, err := b.tracker(store).Finish(ctx)
		if err != nil {
			return err
		}
		b.reply(chatID, fmt.Sprintf("🎉 *%s* completed: %d/%d checked.", escape(l.Name), l.CheckedCount(), len(l.Items)))
		return nil
	case "stop":
		if err := b.tracker(store).Stop(ctx); err != nil {
			return err
		}
		b.reply(chatID, "🛑 Stopped shopping.")
		return nil
	case "metrics":
		return b.handleMetricsRequest(ctx, msg)
	default:
		b.reply(chatID, helpText)
		return nil
	}
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) error {
	if b.admin == 0 || msg.From.ID != b.admin {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return nil
	}
	if b.deps.Metrics == nil {
		b.reply(msg.Chat.ID, "_Metrics are disabled._")
		return nil
	}
	usage, err := b.deps.Metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		return err
	}
	ops, err := b.deps.Metrics.GetOperationSummary(ctx, 7)
	if err != nil {
		return err
	}
	b.reply(msg.Chat.ID, FormatMetricsReport(usage, ops, metrics.ReadHealth(b.deps.DatabasePath)))
	return nil
}

func (b *Bot) sendChecklist(ctx context.Context, store session.KeyValueStore, chatID int64, listID string) error {
	d, err := b.deps.Lists.GetWithProductDetails(ctx, listID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, FormatChecklist(d))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = ChecklistKeyboard(d)
	sent, err := b.api.Send(msg)
	if err != nil {
		slog.Error("Failed to send checklist", "chat_id", chatID, "error", err)
		return nil
	}
	value := strconv.Itoa(sent.MessageID) + ":" + listID
	if err := store.WriteKey(ctx, checklistMessageKey, value); err != nil {
		return fmt.Errorf("failed to remember checklist message: %w", err)
	}
	return nil
}

// checklistList returns the list shown by messageID, if that message is the
// user's live checklist.
func checklistList(ctx context.Context, store session.KeyValueStore, messageID int) (string, bool, error) {
	value, ok, err := store.ReadKey(ctx, checklistMessageKey)
	if err != nil || !ok {
		return "", false, err
	}
	msgID, listID, found := strings.Cut(value, ":")
	if !found || msgID != strconv.Itoa(messageID) {
		return "", false, nil
	}
	return listID, true, nil
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		slog.Warn("Failed to answer callback", "error", err)
	}

	productID, ok := strings.CutPrefix(query.Data, checkPrefix)
	if !ok || productID == "" {
		return
	}

	start := time.Now()
	store := b.deps.Sessions(chatID, query.From.ID)
	err := b.toggleItem(ctx, store, chatID, query.Message.MessageID, productID)
	b.record(ctx, "tg check", start, err)
	if err != nil {
		b.reportError(chatID, "check", err)
	}
}

// toggleItem flips an item of the list shown in messageID. Presses on any
// message other than the user's live checklist of the active list are
// rejected.
func (b *Bot) toggleItem(ctx context.Context, store session.KeyValueStore, chatID int64, messageID int, productID string) error {
	const op = "telegram.check"
	active, err := b.tracker(store).Active(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		return apperr.NotFound(op, "", "active list")
	}
	shown, ok, err := checklistList(ctx, store, messageID)
	if err != nil {
		return err
	}
	if !ok || shown != active.ID {
		return apperr.Conflict(op, active.ID, "this checklist is out of date, send /current for the live one")
	}
	if _, err := b.deps.Lists.ToggleItemChecked(ctx, active.ID, productID); err != nil {
		return err
	}

	d, err := b.deps.Lists.GetWithProductDetails(ctx, active.ID)
	if err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, FormatChecklist(d), ChecklistKeyboard(d))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		slog.Error("Failed to update checklist", "chat_id", chatID, "error", err)
	}
	return nil
}

func (b *Bot) record(ctx context.Context, op string, start time.Time, err error) {
	if b.deps.Metrics == nil {
		return
	}
	outcome := metrics.OutcomeOK
	switch {
	case apperr.IsDomain(err):
		outcome = metrics.OutcomeClientError
	case err != nil:
		outcome = metrics.OutcomeError
	}
	m := metrics.OperationMetric{
		Operation: op,
		Outcome:   outcome,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if recErr := b.deps.Metrics.Record(context.WithoutCancel(ctx), m); recErr != nil {
		slog.Warn("Failed to record metric", "operation", op, "error", recErr)
	}
}

// reportError shows domain errors to the user and hides everything else.
func (b *Bot) reportError(chatID int64, cmd string, err error) {
	var de *apperr.Error
	if errors.As(err, &de) {
		text := de.Message
		if text == "" {
			text = de.Kind.Error()
		}
		b.reply(chatID, "❌ "+escape(text))
		return
	}
	slog.Error("Command failed", "command", cmd, "chat_id", chatID, "error", err)
	b.reply(chatID, "❌ Something went wrong, please try again.")
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}
