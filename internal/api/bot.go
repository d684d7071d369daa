package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "tread-bot/internal/application"
	"tread-bot/internal/container"
	"tread-bot/internal/domain/entity"
	"tread-bot/internal/infrastructure/imageio"
)

const (
	msgStart = `👋 Привет! Я бот для оценки износа протектора шин.

📸 Отправьте фото протектора, и я оценю степень износа и подскажу, что делать дальше.

📋 Команды:
/check — проверить шину
/crop — обрезать скриншот по содержимому
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check и фото протектора
2️⃣ Бот проверит, что на фото шина, и оценит износ
3️⃣ Вы получите результат: текст, сравнительную панель и отчёт

💡 Рекомендации:
• Снимайте протектор крупно и при хорошем освещении
• Держите камеру перпендикулярно поверхности шины
• Фото должно быть чётким

⚠️ Оценка приблизительная и не заменяет замер глубины протектора.

📋 Команды:
/check — проверить шину
/crop — обрезать скриншот
/cancel — отменить операцию`

	msgAwaitingPhoto      = "📸 Отправьте фото протектора шины."
	msgAwaitingScreenshot = "🖼 Отправьте скриншот на светлом фоне, я обрежу лишние поля."
	msgCancelled          = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto          = "📸 Пожалуйста, отправьте фото протектора шины."
	msgUnknownCommand     = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing         = "⏳ Обрабатываю изображение..."
	msgBusy               = "⏳ Предыдущее изображение ещё обрабатывается, подождите."
	msgNotTyre            = "🤔 Не похоже на фото шины (пройдено проверок: %d из 6). Попробуйте снять протектор крупнее."
	msgWearFailed         = "⚠️ Не удалось оценить износ. Попробуйте сделать другое фото."
	msgNoContent          = "ℹ️ Содержимое на скриншоте не найдено, отправляю исходное изображение."
	msgCropped            = "✂️ Обрезано до %dx%d."
	msgDecodeError        = "⚠️ Не удалось прочитать изображение. Отправьте фото в формате JPEG или PNG."
	msgProcessingError    = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgWearResult         = `🛞 Износ протектора: %.1f%%
Состояние: %s
Безопасность: %s
Осталось примерно: %d мес.

%s`
)

const downloadTimeout = 30 * time.Second

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *container.Container
	http   *http.Client
	logger *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, appContainer *container.Container, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:    api,
		app:    appContainer,
		http:   &http.Client{Timeout: downloadTimeout},
		logger: logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			// Анализ может занять секунды, не задерживаем остальные чаты.
			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("failed to get user", "user_id", msg.From.ID, "error", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	fileID := imageFileID(msg)
	if fileID == "" {
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
		return
	}

	switch user.State {
	case entity.StateAwaitingScreenshot:
		b.handleScreenshot(ctx, msg, fileID)
	case entity.StateProcessing:
		b.sendMessage(msg.Chat.ID, msgBusy)
	default:
		// Фото без /check тоже считаем проверкой шины.
		b.handleTyrePhoto(ctx, msg, fileID)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.app.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.replyOrBusy(msg.Chat.ID, err, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		_, err = b.app.UserService.BeginCheck(ctx, user.ID, msg.Chat.ID)
		b.replyOrBusy(msg.Chat.ID, err, msgAwaitingPhoto)

	case "crop":
		_, err = b.app.UserService.BeginCrop(ctx, user.ID, msg.Chat.ID)
		b.replyOrBusy(msg.Chat.ID, err, msgAwaitingScreenshot)

	case "cancel":
		_, err = b.app.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.replyOrBusy(msg.Chat.ID, err, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil && !errors.Is(err, app.ErrBusy) {
		b.logger.Error("failed to update user state", "user_id", user.ID, "command", msg.Command(), "error", err)
	}
}

func (b *Bot) replyOrBusy(chatID int64, err error, text string) {
	switch {
	case errors.Is(err, app.ErrBusy):
		b.sendMessage(chatID, msgBusy)
	case err != nil:
		b.sendMessage(chatID, msgProcessingError)
	default:
		b.sendMessage(chatID, text)
	}
}

// handleTyrePhoto проверяет фото шины и отправляет результат
func (b *Bot) handleTyrePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("failed to download photo", "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.logger.Debug("received tyre photo", "user_id", msg.From.ID, "bytes", len(data))

	out, err := b.app.InspectionService.HandleTyrePhoto(ctx, msg.From.ID, msg.Chat.ID, data)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	inspection := out.Inspection
	switch {
	case !inspection.Accepted():
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgNotTyre, inspection.Verdict.ScoreCount))
		return
	case inspection.Wear == nil:
		b.logger.Warn("wear analysis failed", "user_id", msg.From.ID, "error", inspection.WearErr)
		b.sendMessage(msg.Chat.ID, msgWearFailed)
		return
	}

	w := inspection.Wear
	b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgWearResult,
		w.WearPercentage, w.Condition, w.SafetyStatus, w.RemainingLifeMonths,
		"• "+strings.Join(w.Recommendations, "\n• ")))

	if len(out.Visualization) > 0 {
		photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "wear.png", Bytes: out.Visualization})
		photo.Caption = "Сравнение с эталонными уровнями износа"
		b.send(photo)
	}
	if out.Report != nil {
		doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "report.md", Bytes: []byte(out.Report.Text)})
		b.send(doc)
	}
}

// handleScreenshot обрезает скриншот и отправляет его документом без сжатия
func (b *Bot) handleScreenshot(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("failed to download screenshot", "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	out, err := b.app.InspectionService.HandleScreenshot(ctx, msg.From.ID, msg.Chat.ID, data)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	if out.Fallback {
		b.sendMessage(msg.Chat.ID, msgNoContent)
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "cropped.png", Bytes: out.Image})
	doc.Caption = fmt.Sprintf(msgCropped, out.Raster.Width, out.Raster.Height)
	b.send(doc)
}

func (b *Bot) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, app.ErrBusy):
		b.sendMessage(chatID, msgBusy)
	case errors.Is(err, imageio.ErrDecode), errors.Is(err, entity.ErrInvalidInput):
		b.sendMessage(chatID, msgDecodeError)
	default:
		b.logger.Error("failed to process image", "error", err)
		b.sendMessage(chatID, msgProcessingError)
	}
}

// imageFileID возвращает ID фото в максимальном разрешении или документа-картинки
func imageFileID(msg *tgbotapi.Message) string {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID
	}
	return ""
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	// Ссылка содержит токен бота, в лог она попадает только через SecureHandler.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("failed to send message", "error", err)
	}
}
