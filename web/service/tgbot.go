package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medident/linea/logger"
	"github.com/medident/linea/web/locale"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/atomic"
)

var (
	bot        *telego.Bot
	botHandler *th.BotHandler
	botCancel  context.CancelFunc
	clinicIds  []int64
	isRunning  atomic.Bool
)

// Tgbot notifies the clinic's Telegram chat about portal activity and
// answers a couple of staff commands.
type Tgbot struct {
	settingService SettingService
	serverService  ServerService
}

func (t *Tgbot) I18nBot(key string, params ...string) string {
	return locale.I18n(locale.Bot, key, params...)
}

func (t *Tgbot) Start() error {
	token, err := t.settingService.GetTgBotToken()
	if err != nil || token == "" {
		logger.Warning("Get TgBotToken failed:", err)
		return err
	}

	chatIds, err := t.settingService.GetTgBotChatId()
	if err != nil {
		logger.Warning("Get TgBotChatId failed:", err)
		return err
	}

	clinicIds = nil
	for _, chatId := range strings.Split(chatIds, ",") {
		chatId = strings.TrimSpace(chatId)
		if chatId == "" {
			continue
		}
		id, err := strconv.ParseInt(chatId, 10, 64)
		if err != nil {
			logger.Warning("Bad chat id in tgBotChatId:", err)
			return err
		}
		clinicIds = append(clinicIds, id)
	}

	bot, err = telego.NewBot(token)
	if err != nil {
		logger.Warning("Init telegram bot failed:", err)
		return err
	}

	if !isRunning.Load() {
		logger.Info("Starting Telegram receiver ...")
		var ctx context.Context
		ctx, botCancel = context.WithCancel(context.Background())
		go t.onReceive(ctx)
		isRunning.Store(true)
	}

	return nil
}

func (t *Tgbot) IsRunning() bool {
	return isRunning.Load()
}

func (t *Tgbot) Stop() {
	if botCancel != nil {
		botCancel()
	}
	if botHandler != nil {
		_ = botHandler.Stop()
	}
	logger.Info("Stop Telegram receiver ...")
	isRunning.Store(false)
	clinicIds = nil
}

func (t *Tgbot) onReceive(ctx context.Context) {
	params := telego.GetUpdatesParams{
		Timeout: 10,
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &params)
	if err != nil {
		logger.Warning("Telegram long polling failed:", err)
		isRunning.Store(false)
		return
	}

	botHandler, err = th.NewBotHandler(bot, updates)
	if err != nil {
		logger.Warning("Init telegram bot handler failed:", err)
		isRunning.Store(false)
		return
	}

	botHandler.HandleMessage(func(hctx *th.Context, message telego.Message) error {
		t.SendMsgToTgbot(message.Chat.ID, "Linea Aligners clinic bot. Commands: /status")
		return nil
	}, th.CommandEqual("start"))

	botHandler.HandleMessage(func(hctx *th.Context, message telego.Message) error {
		if !t.isClinicChat(message.Chat.ID) {
			return nil
		}
		t.SendMsgToTgbot(message.Chat.ID, t.serverStatusText())
		return nil
	}, th.CommandEqual("status"))

	if err := botHandler.Start(); err != nil {
		logger.Warning("Telegram bot handler stopped:", err)
	}
}

func (t *Tgbot) isClinicChat(chatId int64) bool {
	for _, id := range clinicIds {
		if id == chatId {
			return true
		}
	}
	return false
}

func (t *Tgbot) serverStatusText() string {
	status := t.serverService.GetStatus()
	return fmt.Sprintf("💻 CPU: %.1f%%\r\n🧠 RAM: %d / %d MB\r\n⏳ Uptime: %s",
		status.Cpu,
		status.Mem.Current/1024/1024,
		status.Mem.Total/1024/1024,
		status.UptimeText)
}

func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string) {
	if !isRunning.Load() {
		return
	}
	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	params := telego.SendMessageParams{
		ChatID: tu.ID(chatId),
		Text:   msg,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := bot.SendMessage(ctx, &params); err != nil {
		logger.Warning("Error sending telegram message :", err)
	}
}

// SendMsgToClinic fans the message out to every configured clinic chat.
func (t *Tgbot) SendMsgToClinic(msg string) {
	for _, chatId := range clinicIds {
		t.SendMsgToTgbot(chatId, msg)
	}
}

func (t *Tgbot) NotifySignup(patientId string, fullName string) {
	if !isRunning.Load() {
		return
	}
	msg := t.I18nBot("tgbot.messages.signup", "Name=="+fullName, "Id=="+patientId)
	t.SendMsgToClinic(msg)
}

func (t *Tgbot) NotifyLogin(patientId string, ip string, success bool) {
	if !isRunning.Load() {
		return
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	key := "tgbot.messages.login"
	if !success {
		key = "tgbot.messages.loginFailed"
	}
	msg := t.I18nBot(key, "Id=="+patientId, "Ip=="+ip, "Time=="+now)
	t.SendMsgToClinic(msg)
}
