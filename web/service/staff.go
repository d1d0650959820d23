package service

import (
	"errors"

	"github.com/medident/linea/database"
	"github.com/medident/linea/database/model"
	"github.com/medident/linea/logger"
	"github.com/medident/linea/util/crypto"

	"github.com/xlzd/gotp"
)

// StaffService authenticates clinic staff for the admin area.
type StaffService struct {
	settingService SettingService
}

func (s *StaffService) GetFirstStaff() (*model.Staff, error) {
	db := database.GetDB()

	staff := &model.Staff{}
	err := db.Model(model.Staff{}).
		First(staff).
		Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// CheckStaff returns the staff account matching username/password and, when
// two-factor is enabled, the current TOTP code. Nil on any failure.
func (s *StaffService) CheckStaff(username string, password string, twoFactorCode string) *model.Staff {
	db := database.GetDB()

	staff := &model.Staff{}

	err := db.Model(model.Staff{}).
		Where("username = ?", username).
		First(staff).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("check staff err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(staff.PasswordHash, password) {
		return nil
	}

	twoFactorEnable, err := s.settingService.GetTwoFactorEnable()
	if err != nil {
		logger.Warning("check two factor err:", err)
		return nil
	}

	if twoFactorEnable {
		twoFactorToken, err := s.settingService.GetTwoFactorToken()
		if err != nil {
			logger.Warning("check two factor token err:", err)
			return nil
		}

		if gotp.NewDefaultTOTP(twoFactorToken).Now() != twoFactorCode {
			return nil
		}
	}

	return staff
}

// UpdateFirstStaff sets the credentials of the first staff account, creating
// it when the table is empty. Used by the CLI setting command.
func (s *StaffService) UpdateFirstStaff(username string, password string) error {
	if username == "" {
		return errors.New("username can not be empty")
	} else if password == "" {
		return errors.New("password can not be empty")
	}
	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	db := database.GetDB()
	staff := &model.Staff{}
	err = db.Model(model.Staff{}).First(staff).Error
	if database.IsNotFound(err) {
		staff.Username = username
		staff.PasswordHash = hashedPassword
		return db.Model(model.Staff{}).Create(staff).Error
	} else if err != nil {
		return err
	}
	staff.Username = username
	staff.PasswordHash = hashedPassword
	return db.Save(staff).Error
}
