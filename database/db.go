// Package database manages the SQLite store of the Linea portal.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"
	"time"

	"github.com/medident/linea/config"
	"github.com/medident/linea/database/model"
	"github.com/medident/linea/treatment"
	"github.com/medident/linea/util/crypto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	defaultStaffUsername = "clinic"
	defaultStaffPassword = "clinic"

	demoPatientID       = "leart01"
	demoPatientName     = "Leart Tredhaku"
	demoPatientEmail    = "leart@linea.example"
	demoPatientPassword = "aligner1"
	demoPatientWeek     = 10
)

func initModels() error {
	models := []any{
		&model.Patient{},
		&model.Staff{},
		&model.Setting{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func initStaff() error {
	empty, err := isTableEmpty("staffs")
	if err != nil {
		log.Printf("Error checking if staffs table is empty: %v", err)
		return err
	}
	if empty {
		hash, err := crypto.HashPasswordAsBcrypt(defaultStaffPassword)
		if err != nil {
			return err
		}
		staff := &model.Staff{
			Username:     defaultStaffUsername,
			PasswordHash: hash,
		}
		return db.Create(staff).Error
	}
	return nil
}

// initDemoPatient seeds one verified demo account so a fresh install shows a
// populated dashboard. Week 10 puts the demo mid-treatment, in phase 2.
func initDemoPatient() error {
	empty, err := isTableEmpty("patients")
	if err != nil {
		log.Printf("Error checking if patients table is empty: %v", err)
		return err
	}
	if empty {
		hash, err := crypto.HashPasswordAsBcrypt(demoPatientPassword)
		if err != nil {
			return err
		}
		patient := &model.Patient{
			PatientID:      demoPatientID,
			FullName:       demoPatientName,
			Email:          demoPatientEmail,
			PasswordHash:   hash,
			CurrentWeek:    demoPatientWeek,
			IsVerified:     true,
			TreatmentStart: time.Now().AddDate(0, 0, -7*(demoPatientWeek-1)),
		}
		if patient.CurrentWeek > treatment.TotalWeeks {
			patient.CurrentWeek = treatment.TotalWeeks
		}
		return db.Create(patient).Error
	}
	return nil
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initStaff(); err != nil {
		return err
	}
	if err := initDemoPatient(); err != nil {
		return err
	}

	return nil
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
