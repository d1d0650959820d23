package service

import (
	"strconv"
	"time"

	"github.com/medident/linea/database"
	"github.com/medident/linea/database/model"
	"github.com/medident/linea/util/common"
	"github.com/medident/linea/util/random"
	"github.com/medident/linea/web/entity"
)

var defaultValueMap = map[string]string{
	"webListen":          "",
	"webDomain":          "",
	"webPort":            "8080",
	"webBasePath":        "/",
	"secret":             random.Seq(32),
	"sessionMaxAge":      "60",
	"bookingCalendarUrl": "https://calendar.google.com/calendar/u/0/appointments/schedules/AcZssZ2eP6uFm-7rY-M8Nn4R-JqXvY-M8Nn4R-JqXvY-M8Nn4R-JqXv",
	"whatsAppNumber":     "38349772307",
	"planViewerUrl":      "https://webviewer2.archform.com/?name=Leart_Tredhaku&data=eyJtb2RlIjoiQWR2YW5jZWQiLCJkb3dubG9hZFVybCI6ImFIUjBjSE02THk5aGNtTm9abTl5YlMxM1pXSXRjMmhoY21WaFlteGxMbk16TFdGalkyVnSaWEpoZEdVdVlXMWhlbTl1WVhkekxtTnZiUzkzWldJdGRtbGxkMlZ5TDNWekxXVmhjM1F0TWpvNVpUVmlNMlV6T1MwMlpHSmlMV015WWpndE1qZ3paQzB3WlRNd1lqRTRNemc0Tmpndk16aFJZek5IY2pCMVVuZDVOVGhuYjFGQmVWUlJRMlU0YlhkMkwzTmxkSFZ3WDJacGJHVXZNemhSWXpOS1FXOVVaRXR4VjBaRFVVaHhkM2d6WWxoSFNuZDZMbnBwY0E9PSJ9",
	"aiEnabled":          "false",
	"aiApiKey":           "",
	"aiChatModel":        "gemini-3-flash-preview",
	"aiImageModel":       "gemini-2.5-flash-image",
	"tgBotEnable":        "false",
	"tgBotToken":         "",
	"tgBotChatId":        "",
	"tgLang":             "en-US",
	"twoFactorEnable":    "false",
	"twoFactorToken":     "",
	"timeLocation":       "Europe/Tirane",
}

// SettingService reads and writes the runtime settings table, falling back to
// the defaults map for keys that were never saved.
type SettingService struct{}

func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	allSetting := &entity.AllSetting{}
	var err error

	if allSetting.WebListen, err = s.GetListen(); err != nil {
		return nil, err
	}
	if allSetting.WebDomain, err = s.GetWebDomain(); err != nil {
		return nil, err
	}
	if allSetting.WebPort, err = s.GetPort(); err != nil {
		return nil, err
	}
	if allSetting.WebBasePath, err = s.GetBasePath(); err != nil {
		return nil, err
	}
	if allSetting.SessionMaxAge, err = s.GetSessionMaxAge(); err != nil {
		return nil, err
	}
	if allSetting.BookingCalendarURL, err = s.GetBookingCalendarURL(); err != nil {
		return nil, err
	}
	if allSetting.WhatsAppNumber, err = s.GetWhatsAppNumber(); err != nil {
		return nil, err
	}
	if allSetting.PlanViewerURL, err = s.GetPlanViewerURL(); err != nil {
		return nil, err
	}
	if allSetting.AIEnabled, err = s.GetAIEnabled(); err != nil {
		return nil, err
	}
	if allSetting.AIAPIKey, err = s.GetAIAPIKey(); err != nil {
		return nil, err
	}
	if allSetting.AIChatModel, err = s.GetAIChatModel(); err != nil {
		return nil, err
	}
	if allSetting.AIImageModel, err = s.GetAIImageModel(); err != nil {
		return nil, err
	}
	if allSetting.TgBotEnable, err = s.GetTgbotEnabled(); err != nil {
		return nil, err
	}
	if allSetting.TgBotToken, err = s.GetTgBotToken(); err != nil {
		return nil, err
	}
	if allSetting.TgBotChatId, err = s.GetTgBotChatId(); err != nil {
		return nil, err
	}
	if allSetting.TwoFactorEnable, err = s.GetTwoFactorEnable(); err != nil {
		return nil, err
	}
	if allSetting.TimeLocation, err = s.getString("timeLocation"); err != nil {
		return nil, err
	}

	return allSetting, nil
}

func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getBool(key string) (bool, error) {
	str, err := s.getString(key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(str)
}

func (s *SettingService) setBool(key string, value bool) error {
	return s.setString(key, strconv.FormatBool(value))
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(ip string) error {
	return s.setString("webListen", ip)
}

func (s *SettingService) GetWebDomain() (string, error) {
	return s.getString("webDomain")
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	return s.setInt("webPort", port)
}

func (s *SettingService) GetBasePath() (string, error) {
	basePath, err := s.getString("webBasePath")
	if err != nil {
		return "", err
	}
	if basePath == "" {
		basePath = "/"
	}
	if basePath[len(basePath)-1] != '/' {
		basePath += "/"
	}
	return basePath, nil
}

func (s *SettingService) GetSecret() ([]byte, error) {
	secret, err := s.getString("secret")
	if secret == defaultValueMap["secret"] {
		if err := s.saveSetting("secret", secret); err != nil {
			return nil, err
		}
	}
	return []byte(secret), err
}

func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

func (s *SettingService) GetBookingCalendarURL() (string, error) {
	return s.getString("bookingCalendarUrl")
}

func (s *SettingService) SetBookingCalendarURL(url string) error {
	return s.setString("bookingCalendarUrl", url)
}

func (s *SettingService) GetWhatsAppNumber() (string, error) {
	return s.getString("whatsAppNumber")
}

// GetWhatsAppLink builds the wa.me deep link for the clinic's number.
func (s *SettingService) GetWhatsAppLink() (string, error) {
	number, err := s.GetWhatsAppNumber()
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + number, nil
}

func (s *SettingService) GetPlanViewerURL() (string, error) {
	return s.getString("planViewerUrl")
}

func (s *SettingService) GetAIEnabled() (bool, error) {
	return s.getBool("aiEnabled")
}

func (s *SettingService) SetAIEnabled(value bool) error {
	return s.setBool("aiEnabled", value)
}

func (s *SettingService) GetAIAPIKey() (string, error) {
	return s.getString("aiApiKey")
}

func (s *SettingService) SetAIAPIKey(key string) error {
	return s.setString("aiApiKey", key)
}

func (s *SettingService) GetAIChatModel() (string, error) {
	return s.getString("aiChatModel")
}

func (s *SettingService) GetAIImageModel() (string, error) {
	return s.getString("aiImageModel")
}

func (s *SettingService) GetTgbotEnabled() (bool, error) {
	return s.getBool("tgBotEnable")
}

func (s *SettingService) SetTgbotEnabled(value bool) error {
	return s.setBool("tgBotEnable", value)
}

func (s *SettingService) GetTgBotToken() (string, error) {
	return s.getString("tgBotToken")
}

func (s *SettingService) SetTgBotToken(token string) error {
	return s.setString("tgBotToken", token)
}

func (s *SettingService) GetTgBotChatId() (string, error) {
	return s.getString("tgBotChatId")
}

func (s *SettingService) SetTgBotChatId(chatIds string) error {
	return s.setString("tgBotChatId", chatIds)
}

func (s *SettingService) GetTgLang() (string, error) {
	return s.getString("tgLang")
}

func (s *SettingService) GetTwoFactorEnable() (bool, error) {
	return s.getBool("twoFactorEnable")
}

func (s *SettingService) SetTwoFactorEnable(value bool) error {
	return s.setBool("twoFactorEnable", value)
}

func (s *SettingService) GetTwoFactorToken() (string, error) {
	return s.getString("twoFactorToken")
}

func (s *SettingService) SetTwoFactorToken(token string) error {
	return s.setString("twoFactorToken", token)
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		location, err = time.LoadLocation(defaultLocation)
	}
	return location, err
}
