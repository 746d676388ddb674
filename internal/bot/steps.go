package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/session"
)

// filterSpec binds a catalog-driven survey step to its filter kind.
type filterSpec struct {
	kind catalog.Kind
	step session.Step
}

var (
	filterSex         = filterSpec{kind: catalog.KindSex, step: StepSex}
	filterGoal        = filterSpec{kind: catalog.KindGoal, step: StepGoal}
	filterEnvironment = filterSpec{kind: catalog.KindEnvironment, step: StepEnvironment}
	filterLevel       = filterSpec{kind: catalog.KindLevel, step: StepLevel}
	filterFrequency   = filterSpec{kind: catalog.KindFrequency, step: StepFrequency}
)

// prevStep maps each step to the immediately preceding one in the fixed
// survey order. Back-navigation never jumps further than one step.
var prevStep = map[session.Step]session.Step{
	StepSurveyStart:       StepMainMenu,
	StepSex:               StepSurveyStart,
	StepAgeGroup:          StepSex,
	StepHealthCondition:   StepAgeGroup,
	StepGoal:              StepHealthCondition,
	StepEnvironment:       StepGoal,
	StepLevel:             StepEnvironment,
	StepFrequency:         StepLevel,
	StepPaymentScreenshot: StepFrequency,
}

// askStep renders the prompt for a step. Used for forward entry from the
// step before it and for back-navigation from the step after it; frequency
// rendered this way never auto-skips, so backing out of the payment step
// cannot bounce straight into creating another payment.
func (b *Bot) askStep(ctx context.Context, req *Request, step session.Step) error {
	switch step {
	case StepMainMenu:
		return b.sendMainMenu(ctx, req)
	case StepSurveyStart:
		return b.askSurveyStart(ctx, req)
	case StepSex:
		return b.askFilter(ctx, req, filterSex)
	case StepAgeGroup:
		return b.askAgeGroup(ctx, req)
	case StepHealthCondition:
		return b.askHealthCondition(ctx, req)
	case StepGoal:
		return b.askFilter(ctx, req, filterGoal)
	case StepEnvironment:
		return b.askFilter(ctx, req, filterEnvironment)
	case StepLevel:
		return b.askFilter(ctx, req, filterLevel)
	case StepFrequency:
		return b.askFrequency(ctx, req, false)
	}
	return b.sendMainMenu(ctx, req)
}

// askFilter prompts a catalog-driven step. The asked kind and every later
// kind are cleared first so stale downstream choices never constrain the
// reachability query.
func (b *Bot) askFilter(ctx context.Context, req *Request, spec filterSpec) error {
	req.Session.Filters.UnsetFrom(spec.kind)

	values, err := b.catalog.ReachableValues(ctx, spec.kind, req.Session.Filters)
	if err != nil || len(values) == 0 {
		b.logger.Error("Failed to get reachable filter values",
			zap.Int64("chat_id", req.ChatID),
			zap.String("kind", string(spec.kind)),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}

	msg := tgbotapi.NewMessage(req.ChatID, req.T(string(spec.kind)+"_description"))
	msg.ReplyMarkup = filterKeyboard(req.T, spec.kind, values)
	b.send(msg)

	req.Session.Step = spec.step
	return b.saveSession(ctx, req)
}

// saveFilterStep builds the input handler for a catalog-driven step.
func (b *Bot) saveFilterStep(spec filterSpec) HandlerFunc {
	return func(ctx context.Context, req *Request) error {
		text := req.Message.Text

		if text == req.T("back_button") {
			return b.askStep(ctx, req, prevStep[spec.step])
		}

		value, ok := matchFilterChoice(req.T, spec.kind, text)
		if !ok {
			b.reply(req, req.T("invalid_input_text"))
			return b.askStep(ctx, req, spec.step)
		}

		req.Session.Filters.Set(spec.kind, value)

		if spec.kind == catalog.KindEnvironment && value == catalog.EnvironmentHouseAndStreet {
			b.sendEquipmentRecommendation(req)
		}

		return b.advanceFrom(ctx, req, spec.step)
	}
}

// advanceFrom moves the survey forward from a completed filter step.
func (b *Bot) advanceFrom(ctx context.Context, req *Request, step session.Step) error {
	switch step {
	case StepSex:
		return b.askAgeGroup(ctx, req)
	case StepGoal:
		return b.askFilter(ctx, req, filterEnvironment)
	case StepEnvironment:
		return b.askFilter(ctx, req, filterLevel)
	case StepLevel:
		return b.askFrequency(ctx, req, true)
	case StepFrequency:
		return b.beginPayment(ctx, req)
	}
	return fmt.Errorf("no step follows %q", step)
}

// matchFilterChoice maps a button label back to a filter value.
func matchFilterChoice(t i18n.Translator, kind catalog.Kind, choice string) (catalog.Value, bool) {
	for _, value := range kind.Values() {
		if choice == t(catalog.ButtonKey(kind, value)) {
			return value, true
		}
	}
	return "", false
}

func (b *Bot) askAgeGroup(ctx context.Context, req *Request) error {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("age_group_description"))
	msg.ReplyMarkup = ageGroupKeyboard(req.T)
	b.send(msg)

	req.Session.Step = StepAgeGroup
	return b.saveSession(ctx, req)
}

func (b *Bot) saveAgeGroup(ctx context.Context, req *Request) error {
	text := req.Message.Text

	if text == req.T("back_button") {
		return b.askStep(ctx, req, prevStep[StepAgeGroup])
	}

	groups := map[string]string{
		req.T("age_group_under_20_button"): "under_20",
		req.T("age_group_under_30_button"): "under_30",
		req.T("age_group_under_40_button"): "under_40",
		req.T("age_group_above_40_button"): "above_40",
	}

	group, ok := groups[text]
	if !ok {
		b.reply(req, req.T("invalid_input_text"))
		return b.askAgeGroup(ctx, req)
	}

	req.Session.AgeGroup = group
	return b.askHealthCondition(ctx, req)
}

func (b *Bot) askHealthCondition(ctx context.Context, req *Request) error {
	msg := tgbotapi.NewMessage(req.ChatID, req.T("health_condition_description"))
	msg.ReplyMarkup = yesNoKeyboard(req.T)
	b.send(msg)

	req.Session.Step = StepHealthCondition
	return b.saveSession(ctx, req)
}

func (b *Bot) saveHealthCondition(ctx context.Context, req *Request) error {
	switch req.Message.Text {
	case req.T("back_button"):
		return b.askStep(ctx, req, prevStep[StepHealthCondition])

	case req.T("yes_button"):
		return b.askFilter(ctx, req, filterGoal)

	case req.T("no_button"):
		b.reply(req, req.T("health_condition_declined"))
		return b.sendMainMenu(ctx, req)

	default:
		b.reply(req, req.T("invalid_input_text"))
		return b.askHealthCondition(ctx, req)
	}
}

// askFrequency prompts the frequency step. On forward entry (allowSkip) a
// single reachable value is recorded without prompting and the survey moves
// straight to payment.
func (b *Bot) askFrequency(ctx context.Context, req *Request, allowSkip bool) error {
	req.Session.Filters.UnsetFrom(catalog.KindFrequency)

	values, err := b.catalog.ReachableValues(ctx, catalog.KindFrequency, req.Session.Filters)
	if err != nil || len(values) == 0 {
		b.logger.Error("Failed to get reachable frequency values",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}

	if allowSkip && len(values) == 1 {
		req.Session.Filters.Set(catalog.KindFrequency, values[0])
		return b.beginPayment(ctx, req)
	}

	msg := tgbotapi.NewMessage(req.ChatID, req.T("frequency_description"))
	msg.ReplyMarkup = filterKeyboard(req.T, catalog.KindFrequency, values)
	b.send(msg)

	req.Session.Step = StepFrequency
	return b.saveSession(ctx, req)
}

// beginPayment resolves the plan matching the completed selection, creates
// the payment record and prompts for the payment screenshot. Any service
// failure leaves the conversation where it was so the user can retry.
func (b *Bot) beginPayment(ctx context.Context, req *Request) error {
	if err := b.authenticate(ctx, req); err != nil {
		b.logger.Error("Failed to authenticate user",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}

	plans, err := b.catalog.Plans(ctx, req.Session.Filters)
	if err != nil || len(plans) == 0 {
		b.logger.Error("Failed to resolve training plan",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}
	plan := plans[0]

	created, err := b.payments.Create(ctx, payment.Payment{
		User: payment.User{TelegramID: req.User.TelegramID},
		Items: []payment.Item{
			{
				Price:          plan.Price,
				ItemType:       payment.ItemTypeTrainingPlan,
				TrainingPlanID: plan.ID,
			},
		},
	})
	if err != nil {
		b.logger.Error("Failed to create payment",
			zap.Int64("chat_id", req.ChatID),
			zap.Error(err))
		b.reply(req, req.T("service_unavailable_text"))
		return nil
	}

	req.Session.Plan = &plan
	req.Session.Payment = &created
	req.Session.Step = StepPaymentScreenshot
	if err := b.saveSession(ctx, req); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(req.ChatID, fmt.Sprintf(req.T("payment_training_plan_description"), plan.Price))
	msg.ReplyMarkup = backKeyboard(req.T)
	b.send(msg)
	b.reply(req, req.T("payment_monobank_card_data"))
	return nil
}

func (b *Bot) savePaymentScreenshot(ctx context.Context, req *Request) error {
	if req.Message.Text == req.T("back_button") {
		return b.askStep(ctx, req, prevStep[StepPaymentScreenshot])
	}

	if len(req.Message.Photo) == 0 {
		b.reply(req, req.T("payment_not_screenshot"))
		return nil
	}

	if req.Session.Plan == nil || req.Session.Payment == nil {
		b.logger.Error("Payment step reached without plan or payment",
			zap.Int64("chat_id", req.ChatID))
		b.reply(req, req.T("service_unavailable_text"))
		return b.sendMainMenu(ctx, req)
	}

	// Telegram orders photo sizes ascending; forward the largest.
	proof := req.Message.Photo[len(req.Message.Photo)-1]
	b.dispatchReview(ctx, req, proof.FileID)

	msg := tgbotapi.NewMessage(req.ChatID, req.T("payment_wait_confirmation"))
	msg.ReplyMarkup = mainMenuKeyboard(req.T)
	b.send(msg)

	return b.sessions.Clear(ctx, req.ChatID)
}
