package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/config"
	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
	"fitplan-bot/internal/session"
	"fitplan-bot/internal/user"
)

const (
	testChatID    = int64(42)
	reviewChatOne = int64(100)
	reviewChatTwo = int64(200)
)

type fakeSender struct {
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	failSendTo map[int64]bool
	nextID     int
}

func chatIDOf(c tgbotapi.Chattable) int64 {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.ChatID
	case tgbotapi.PhotoConfig:
		return v.ChatID
	}
	return 0
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.failSendTo[chatIDOf(c)] {
		return tgbotapi.Message{}, errors.New("chat unreachable")
	}
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns every sent plain-message text in order.
func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeSender) containsText(text string) bool {
	for _, got := range f.texts() {
		if got == text {
			return true
		}
	}
	return false
}

// photoChats returns the chat IDs that received photo messages.
func (f *fakeSender) photoChats() []int64 {
	var out []int64
	for _, c := range f.sent {
		if photo, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, photo.ChatID)
		}
	}
	return out
}

// markupEdits returns the reply-markup rewrites issued so far.
func (f *fakeSender) markupEdits() []tgbotapi.EditMessageReplyMarkupConfig {
	var out []tgbotapi.EditMessageReplyMarkupConfig
	for _, c := range f.requests {
		if edit, ok := c.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			out = append(out, edit)
		}
	}
	return out
}

type memSessions struct {
	m map[int64]session.Session
}

func newMemSessions() *memSessions {
	return &memSessions{m: make(map[int64]session.Session)}
}

func (s *memSessions) Get(_ context.Context, chatID int64) (session.Session, error) {
	return s.m[chatID], nil
}

func (s *memSessions) Save(_ context.Context, chatID int64, sess session.Session) error {
	s.m[chatID] = sess
	return nil
}

func (s *memSessions) Clear(_ context.Context, chatID int64) error {
	delete(s.m, chatID)
	return nil
}

type memReviews struct {
	m map[string][]review.ChannelMessage
}

func newMemReviews() *memReviews {
	return &memReviews{m: make(map[string][]review.ChannelMessage)}
}

func (s *memReviews) Save(_ context.Context, paymentID string, messages []review.ChannelMessage) error {
	s.m[paymentID] = messages
	return nil
}

func (s *memReviews) Take(_ context.Context, paymentID string) ([]review.ChannelMessage, error) {
	messages, ok := s.m[paymentID]
	if !ok {
		return nil, review.ErrNotFound
	}
	delete(s.m, paymentID)
	return messages, nil
}

type fakeCatalog struct {
	reachable    map[catalog.Kind][]catalog.Value
	reachableErr error
	plans        []catalog.TrainingPlan
	plansErr     error
	byID         map[string]catalog.TrainingPlan
	refreshed    int
}

func (f *fakeCatalog) ReachableValues(_ context.Context, kind catalog.Kind, _ catalog.Selection) ([]catalog.Value, error) {
	if f.reachableErr != nil {
		return nil, f.reachableErr
	}
	return f.reachable[kind], nil
}

func (f *fakeCatalog) Plans(_ context.Context, _ catalog.Selection) ([]catalog.TrainingPlan, error) {
	if f.plansErr != nil {
		return nil, f.plansErr
	}
	return f.plans, nil
}

func (f *fakeCatalog) Plan(_ context.Context, id string) (catalog.TrainingPlan, error) {
	plan, ok := f.byID[id]
	if !ok {
		return catalog.TrainingPlan{}, catalog.ErrNotFound
	}
	return plan, nil
}

func (f *fakeCatalog) Refresh(_ context.Context) error {
	f.refreshed++
	return nil
}

type fakeUsers struct {
	err error
}

func (f *fakeUsers) CreateOrGet(_ context.Context, u user.User) (user.User, error) {
	if f.err != nil {
		return user.User{}, f.err
	}
	return u, nil
}

type fakePayments struct {
	seq         int
	created     []payment.Payment
	byID        map[string]payment.Payment
	createErr   error
	statusCalls []string
}

func newFakePayments() *fakePayments {
	return &fakePayments{byID: make(map[string]payment.Payment)}
}

func (f *fakePayments) Create(_ context.Context, p payment.Payment) (payment.Payment, error) {
	if f.createErr != nil {
		return payment.Payment{}, f.createErr
	}
	f.seq++
	p.ID = fmt.Sprintf("pay-%d", f.seq)
	p.Status = payment.StatusCreated
	f.created = append(f.created, p)
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePayments) UpdateStatus(_ context.Context, id string, status payment.Status) (payment.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return payment.Payment{}, payment.ErrNotFound
	}
	p.Status = status
	f.byID[id] = p
	f.statusCalls = append(f.statusCalls, fmt.Sprintf("%s:%d", id, status))
	return p, nil
}

type noLocaleStore struct{}

func (noLocaleStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("not found")
}

type fixtures struct {
	sender   *fakeSender
	sessions *memSessions
	reviews  *memReviews
	catalog  *fakeCatalog
	users    *fakeUsers
	payments *fakePayments
	t        i18n.Translator
}

var testPlan = catalog.TrainingPlan{
	ID:         "p1",
	Title:      "Базовий план",
	Price:      499,
	URL:        "https://notion.so/page",
	ContentURL: "https://notion.so/content",
}

func newTestBot(t *testing.T) (*Bot, *fixtures) {
	t.Helper()

	loc, err := i18n.New(noLocaleStore{}, zap.NewNop())
	if err != nil {
		t.Fatalf("i18n.New failed: %v", err)
	}

	fx := &fixtures{
		sender:   &fakeSender{failSendTo: make(map[int64]bool)},
		sessions: newMemSessions(),
		reviews:  newMemReviews(),
		catalog: &fakeCatalog{
			reachable: map[catalog.Kind][]catalog.Value{
				catalog.KindSex:         {catalog.SexMale, catalog.SexFemale},
				catalog.KindGoal:        {catalog.GoalMuscleGain, catalog.GoalWeightLoss, catalog.GoalImproveHealth},
				catalog.KindEnvironment: {catalog.EnvironmentGym, catalog.EnvironmentHouseAndStreet},
				catalog.KindLevel:       {catalog.LevelBeginner, catalog.LevelMiddle, catalog.LevelAdvanced},
				catalog.KindFrequency:   {catalog.FrequencyFour},
			},
			plans: []catalog.TrainingPlan{testPlan},
			byID:  map[string]catalog.TrainingPlan{testPlan.ID: testPlan},
		},
		users:    &fakeUsers{},
		payments: newFakePayments(),
		t:        loc.Translate(i18n.DefaultLocale),
	}

	cfg := &config.Config{
		ReviewChatIDs: []int64{reviewChatOne, reviewChatTwo},
		AdminIDs:      []int64{7},
	}

	b := New(
		fx.sender,
		fx.sessions,
		fx.reviews,
		fx.catalog,
		fx.users,
		fx.payments,
		loc,
		cfg,
		zap.NewNop(),
	)
	return b, fx
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID, FirstName: "Олег", UserName: "oleh"},
		},
	}
}

func commandUpdate(chatID int64, command string) tgbotapi.Update {
	u := textUpdate(chatID, command)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return u
}

func photoUpdate(chatID int64, fileID string) tgbotapi.Update {
	u := textUpdate(chatID, "")
	u.Message.Photo = []tgbotapi.PhotoSize{
		{FileID: fileID + "-small"},
		{FileID: fileID},
	}
	return u
}

func callbackUpdate(fromChat int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			Data: data,
			From: &tgbotapi.User{ID: fromChat},
			Message: &tgbotapi.Message{
				MessageID: 11,
				Chat:      &tgbotapi.Chat{ID: fromChat},
			},
		},
	}
}

// drive feeds a sequence of plain-text messages through the bot.
func drive(b *Bot, chatID int64, texts ...string) {
	for _, text := range texts {
		b.HandleUpdate(context.Background(), textUpdate(chatID, text))
	}
}

// startSurvey walks a fresh chat to the sex step.
func startSurvey(b *Bot, fx *fixtures, chatID int64) {
	b.HandleUpdate(context.Background(), commandUpdate(chatID, "/start"))
	drive(b, chatID,
		fx.t("individual_training_plan_button"),
		fx.t("start_button"),
	)
}
