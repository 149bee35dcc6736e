package service

import (
	"context"
	"fmt"

	"memebot/internal/domain"
	"memebot/internal/repository"

	"go.uber.org/zap"
)

// Captioner generates a captioned image
type Captioner interface {
	GenerateCaption(ctx context.Context, category, topText, bottomText string) domain.ContentResult
}

// ContentFetcher picks random media from content feeds
type ContentFetcher interface {
	FetchRandomImage(ctx context.Context) domain.ContentResult
	FetchRandomVideo(ctx context.Context, category string) domain.ContentResult
}

// Responder delivers outbound actions to the user who sent the event
type Responder interface {
	SendText(ctx context.Context, text string) error
	SendChoices(ctx context.Context, text string, choices []domain.Choice) error
	SendImage(ctx context.Context, url, caption string) error
	SendVideo(ctx context.Context, url, caption string) error
	// EditText replaces the message whose button triggered the event
	EditText(ctx context.Context, text string) error
}

const (
	welcomeCaption   = "🎉 Welcome to Meme Bot on Telegram! 🎉\nWhat would you like to do?"
	modePrompt       = "Select mode:"
	categoryPrompt   = "Choose category:"
	topTextPrompt    = "Send TOP TEXT (max 50 characters):"
	bottomTextPrompt = "Now send BOTTOM TEXT (max 50 characters):"
	customCaption    = "Here's your custom meme! 🎨"
	customFollowUp   = "Type /start to create another!"
	randomFollowUp   = "Type /start to make more memes!"
	cancelledMessage = "Operation cancelled. Type /start to begin again!"
	reselectMessage  = "Invalid category selected. Please choose one of the buttons."
)

// ConversationService drives the per-user meme dialog
type ConversationService struct {
	sessions        repository.SessionRepository
	catalog         *CatalogService
	captioner       Captioner
	fetcher         ContentFetcher
	welcomeImageURL string
	logger          *zap.Logger
}

// NewConversationService creates a new conversation engine
func NewConversationService(
	sessions repository.SessionRepository,
	catalog *CatalogService,
	captioner Captioner,
	fetcher ContentFetcher,
	welcomeImageURL string,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		sessions:        sessions,
		catalog:         catalog,
		captioner:       captioner,
		fetcher:         fetcher,
		welcomeImageURL: welcomeImageURL,
		logger:          logger,
	}
}

// Handle applies ev to the sender's session and returns the resulting
// state. Events for one user are applied one at a time; a fetch in progress
// holds back every later event of the same user.
func (s *ConversationService) Handle(ctx context.Context, ev domain.Event, r Responder) (domain.State, error) {
	unlock := s.sessions.Lock(ev.UserID)
	defer unlock()

	switch ev.Kind {
	case domain.EventStart:
		return s.start(ctx, ev.UserID, r)
	case domain.EventCancel:
		return s.cancel(ctx, ev.UserID, r)
	}

	session, ok := s.sessions.Get(ev.UserID)
	if !ok {
		s.logger.Debug("Ignoring event without session",
			zap.Int64("user_id", ev.UserID),
			zap.Stringer("event", ev.Kind),
		)
		return domain.StateIdle, nil
	}

	var err error
	switch {
	case session.State == domain.StateAwaitingMode && ev.Kind == domain.EventSelect:
		err = s.selectMode(ctx, session, ev.Payload, r)
	case session.State == domain.StateAwaitingCategory && ev.Kind == domain.EventSelect:
		err = s.selectCategory(ctx, session, ev.Payload, r)
	case session.State == domain.StateAwaitingTopText && ev.Kind == domain.EventText:
		err = s.receiveTopText(ctx, session, ev.Payload, r)
	case session.State == domain.StateAwaitingBottomText && ev.Kind == domain.EventText:
		err = s.receiveBottomText(ctx, session, ev.Payload, r)
	default:
		s.logger.Debug("Ignoring event for state",
			zap.Int64("user_id", ev.UserID),
			zap.Stringer("event", ev.Kind),
			zap.String("state", string(session.State)),
		)
		return session.State, nil
	}
	if err != nil {
		return session.State, err
	}

	s.sessions.Save(session)
	return session.State, nil
}

// Reset drops the user's session
func (s *ConversationService) Reset(userID int64) {
	s.sessions.Clear(userID)
}

func (s *ConversationService) start(ctx context.Context, userID int64, r Responder) (domain.State, error) {
	session := s.sessions.Start(userID)

	s.logger.Info("Dialog started", zap.Int64("user_id", userID))

	if s.welcomeImageURL != "" {
		if err := r.SendImage(ctx, s.welcomeImageURL, welcomeCaption); err != nil {
			s.logger.Warn("Failed to send welcome image", zap.Error(err), zap.Int64("user_id", userID))
		}
	}

	choices := make([]domain.Choice, len(domain.Modes))
	for i, m := range domain.Modes {
		choices[i] = domain.Choice{Label: m.Label(), Value: string(m)}
	}
	if err := r.SendChoices(ctx, modePrompt, choices); err != nil {
		return session.State, fmt.Errorf("send mode choices: %w", err)
	}
	return session.State, nil
}

func (s *ConversationService) cancel(ctx context.Context, userID int64, r Responder) (domain.State, error) {
	s.sessions.Clear(userID)

	s.logger.Info("Dialog cancelled", zap.Int64("user_id", userID))

	if err := r.SendText(ctx, cancelledMessage); err != nil {
		return domain.StateCancelled, fmt.Errorf("send cancel acknowledgement: %w", err)
	}
	return domain.StateCancelled, nil
}

func (s *ConversationService) selectMode(ctx context.Context, session *domain.Session, payload string, r Responder) error {
	mode, err := domain.ParseMode(payload)
	if err != nil {
		s.logger.Debug("Ignoring unknown mode", zap.Int64("user_id", session.UserID), zap.Error(err))
		return nil
	}

	session.Mode = mode
	if err := session.Advance(domain.StateAwaitingCategory); err != nil {
		return err
	}

	if err := s.announce(ctx, session.UserID, fmt.Sprintf("Selected %s mode!", mode), r); err != nil {
		return err
	}

	categories := s.catalog.CategoriesFor(mode)
	choices := make([]domain.Choice, len(categories))
	for i, c := range categories {
		choices[i] = domain.Choice{Label: s.catalog.Label(c), Value: c}
	}
	if err := r.SendChoices(ctx, categoryPrompt, choices); err != nil {
		return fmt.Errorf("send category choices: %w", err)
	}
	return nil
}

func (s *ConversationService) selectCategory(ctx context.Context, session *domain.Session, payload string, r Responder) error {
	category, ok := s.catalog.Resolve(payload)
	if ok && session.Mode == domain.ModeVideo && !s.catalog.IsVideoEligible(category) {
		ok = false
	}
	if !ok {
		s.logger.Info("Invalid category selected",
			zap.Int64("user_id", session.UserID),
			zap.String("category", payload),
			zap.String("mode", string(session.Mode)),
		)
		return r.SendText(ctx, reselectMessage)
	}

	session.Category = category

	if session.Mode == domain.ModeEdit {
		if err := session.Advance(domain.StateAwaitingTopText); err != nil {
			return err
		}
		if err := s.announce(ctx, session.UserID, fmt.Sprintf("Selected %s category!", category), r); err != nil {
			return err
		}
		return r.SendText(ctx, topTextPrompt)
	}

	var result domain.ContentResult
	if session.Mode == domain.ModeVideo {
		result = s.fetcher.FetchRandomVideo(ctx, category)
	} else {
		result = s.fetcher.FetchRandomImage(ctx)
	}

	if err := session.Advance(domain.StateDone); err != nil {
		return err
	}

	return s.deliver(ctx, session, result, r)
}

// deliver sends fetched media for random and video modes
func (s *ConversationService) deliver(ctx context.Context, session *domain.Session, result domain.ContentResult, r Responder) error {
	fields := []zap.Field{
		zap.Int64("user_id", session.UserID),
		zap.String("mode", string(session.Mode)),
		zap.String("category", session.Category),
		zap.Stringer("result", result.Kind),
	}

	if !result.Ok() {
		s.logger.Info("No content delivered", append(fields, zap.Error(result.Err))...)
		return r.SendText(ctx, fmt.Sprintf("⚠️ Couldn't find a %s meme for %s.\nTry another category!", session.Mode, session.Category))
	}

	var err error
	if session.Mode == domain.ModeVideo {
		err = r.SendVideo(ctx, result.URL, fmt.Sprintf("Here's your %s video meme! 🎬", session.Category))
	} else {
		err = r.SendImage(ctx, result.URL, fmt.Sprintf("Here's your %s random meme! 🎲", session.Category))
	}
	if err != nil {
		s.logger.Error("Failed to send meme", append(fields, zap.String("url", result.URL), zap.Error(err))...)
		return r.SendText(ctx, fmt.Sprintf("❌ Error: %v. Try another category!", err))
	}

	s.logger.Info("Meme delivered", fields...)
	return r.SendText(ctx, randomFollowUp)
}

func (s *ConversationService) receiveTopText(ctx context.Context, session *domain.Session, text string, r Responder) error {
	session.TopText = domain.Truncate(text)
	if err := session.Advance(domain.StateAwaitingBottomText); err != nil {
		return err
	}
	return r.SendText(ctx, bottomTextPrompt)
}

func (s *ConversationService) receiveBottomText(ctx context.Context, session *domain.Session, text string, r Responder) error {
	bottomText := domain.Truncate(text)

	result := s.captioner.GenerateCaption(ctx, session.Category, session.TopText, bottomText)

	if err := session.Advance(domain.StateDone); err != nil {
		return err
	}

	if result.Ok() {
		if err := r.SendImage(ctx, result.URL, customCaption); err != nil {
			return fmt.Errorf("send custom meme: %w", err)
		}
		s.logger.Info("Custom meme delivered",
			zap.Int64("user_id", session.UserID),
			zap.String("category", session.Category),
		)
	} else {
		s.logger.Info("Custom meme failed",
			zap.Int64("user_id", session.UserID),
			zap.String("category", session.Category),
			zap.Stringer("result", result.Kind),
			zap.Error(result.Err),
		)
		if err := r.SendText(ctx, result.Message); err != nil {
			return err
		}
	}

	return r.SendText(ctx, customFollowUp)
}

// announce edits the keyboard message, falling back to a new message
func (s *ConversationService) announce(ctx context.Context, userID int64, text string, r Responder) error {
	if err := r.EditText(ctx, text); err != nil {
		s.logger.Warn("Failed to edit message, sending new",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return r.SendText(ctx, text)
	}
	return nil
}
