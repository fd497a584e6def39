package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "ish-detector/internal/application"
	"ish-detector/internal/domain/entity"
	"ish-detector/internal/logger"
)

const (
	msgStart = `👋 Привет! Я считаю сигналы CEP и гена на снимках FISH/ISH.

🔬 Отправьте снимок препарата, и я отмечу найденные сигналы и посчитаю отношение gene/CEP.

📋 Команды:
/analyze — начать анализ снимка
/stats — итог последнего анализа
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте снимок как фото или как файл (без сжатия точнее)
2️⃣ Бот найдёт точечные сигналы и классифицирует их
3️⃣ Вы получите снимок с разметкой и подпись с подсчётом

🎨 Цвета:
• синий — CEP
• чёрный — ген
• красный — оба сигнала
• зелёное кольцо — кандидат детектора

📋 Команды:
/analyze — начать анализ
/stats — итог последнего анализа
/cancel — отменить операцию`

	msgAwaitingImage   = "🔬 Отправьте снимок препарата для анализа."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze для нового анализа."
	msgSendImage       = "🔬 Пожалуйста, отправьте снимок препарата."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoStats         = "📭 Анализов пока не было. Отправьте снимок."
	msgNotImage        = "📎 Этот файл не похож на изображение."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другой снимок."

	// idleTTL — через сколько забывать молчащих пользователей
	idleTTL = 24 * time.Hour
)

// botAPI — часть клиента Telegram, которой пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	client   *tgbotapi.BotAPI
	api      botAPI
	token    string
	users    *app.UserService
	analysis *app.AnalysisService
	fetch    func(url string) ([]byte, error)
	log      zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, analysis *app.AnalysisService, log zerolog.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(client, token, users, analysis, log)
	b.client = client
	b.log.Info().Str("account", client.Self.UserName).Msg("authorized")

	return b, nil
}

func newBot(api botAPI, token string, users *app.UserService, analysis *app.AnalysisService, log zerolog.Logger) *Bot {
	return &Bot{
		api:      api,
		token:    token,
		users:    users,
		analysis: analysis,
		fetch:    httpGet,
		log:      logger.Component(log, "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	prune := time.NewTicker(time.Hour)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-prune.C:
			if n := b.users.PruneIdle(ctx, idleTTL); n > 0 {
				b.log.Debug().Int("users", n).Msg("idle users pruned")
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, fmt.Sprintf("photo_%d", msg.MessageID))
		return
	}

	// Снимок, присланный файлом
	if msg.Document != nil {
		if !isImage(msg.Document) {
			b.sendMessage(msg.Chat.ID, msgNotImage)
			return
		}
		name := strings.TrimSuffix(msg.Document.FileName, path.Ext(msg.Document.FileName))
		b.handleImage(ctx, msg, msg.Document.FileID, name)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateIdle)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "analyze":
		if _, err := b.users.BeginAnalysis(ctx, userID, chatID); err != nil {
			b.log.Error().Err(err).Int64("user", userID).Msg("begin analysis")
		}
		b.sendMessage(chatID, msgAwaitingImage)

	case "stats":
		user, err := b.users.Get(ctx, userID, chatID)
		if err != nil || user.Last == nil {
			b.sendMessage(chatID, msgNoStats)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("📊 Снимков обработано: %d\n\n%s", user.Analyzed, caption(*user.Last)))

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error().Err(err).Int64("user", userID).Msg("cancel")
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает снимок, анализирует и отправляет разметку
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, name string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Устанавливаем состояние "анализ"
	b.setState(ctx, userID, chatID, entity.StateAnalyzing)
	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(fileID)
	if err != nil {
		b.fail(ctx, msg, "download image", err)
		return
	}

	out, err := b.analysis.ProcessPhoto(ctx, name, data)
	if err != nil {
		b.fail(ctx, msg, "analyze image", err)
		return
	}

	summary := out.Analysis.Summarize()
	b.log.Info().
		Int64("user", userID).
		Int("circles", summary.Circles).
		Int("cep", summary.Cep).
		Int("gene", summary.Gene).
		Float64("ratio", summary.Ratio).
		Msg("image analyzed")

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name + "_annotated.jpg", Bytes: out.Annotated})
	photo.Caption = caption(summary)
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error().Err(err).Int64("chat", chatID).Msg("send photo")
	}

	if _, err := b.users.Complete(ctx, userID, chatID, summary); err != nil {
		b.log.Error().Err(err).Int64("user", userID).Msg("complete analysis")
	}
}

func (b *Bot) fail(ctx context.Context, msg *tgbotapi.Message, op string, err error) {
	b.log.Error().Err(err).Int64("user", msg.From.ID).Msg(op)
	b.sendMessage(msg.Chat.ID, msgProcessingError)
	b.setState(ctx, msg.From.ID, msg.Chat.ID, entity.StateIdle)
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.UserState) {
	if _, err := b.users.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error().Err(err).Int64("user", userID).Str("state", string(state)).Msg("set state")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return b.fetch(file.Link(b.token))
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat", chatID).Msg("send message")
	}
}

var httpClient = &http.Client{Timeout: time.Minute}

func httpGet(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func isImage(doc *tgbotapi.Document) bool {
	if strings.HasPrefix(doc.MimeType, "image/") {
		return true
	}
	switch strings.ToLower(path.Ext(doc.FileName)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

func caption(s entity.Summary) string {
	return fmt.Sprintf("🔵 CEP: %d\n⚫ Ген: %d\n⭕ Кандидатов: %d (пропущено %d)\n📈 Gene/CEP: %.4f",
		s.Cep, s.Gene, s.Circles, s.Skipped, s.Ratio)
}
