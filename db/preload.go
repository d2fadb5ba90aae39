package db

import (
	"encoding/csv"
	"esign-backend/config"
	courtstore "esign-backend/lib/dicts/court/store"
	userstore "esign-backend/lib/users/store"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addAdmin()
	fillCourts()
}

func addAdmin() {
	if config.Conf.Admin.Email == "" {
		log.Warn("администратор не добавлен, отсутвует настройка ADMIN_EMAIL")
		return
	}
	store := userstore.NewInstance(DB)
	existedRec, err := store.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	if existedRec != nil {
		return
	}
	_, err = store.Create(dbmodels.User{
		Name:   config.Conf.Admin.Name,
		Email:  config.Conf.Admin.Email,
		Role:   models.UserRoleAdmin,
		Status: models.UserStatusActive,
	})
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	log.Info("администратор добавлен")
}

func fillCourts() {
	log.Info("предзаполнение судов")
	store := courtstore.NewInstance(DB)
	list, err := store.List("")
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения судов")
		return
	}
	if len(list) > 0 {
		log.Info("суды заполнены")
		return
	}
	lines, err := readCsvFile("./static_preload/courts.csv", ';')
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("файл с судами отсутствует")
			return
		}
		log.WithError(err).Error("ошибка загрузки файла с судами")
		return
	}
	for k, line := range lines {
		if len(line) == 0 || strings.TrimSpace(line[0]) == "" {
			continue
		}
		_, err = store.Create(dbmodels.Court{Name: strings.TrimSpace(line[0])})
		if err != nil {
			log.WithError(err).Errorf("ошибка добавления суда, строка %v", k)
			return
		}
	}
	log.Info("суды добавлены")
}

func readCsvFile(filePath string, comma rune) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обработки файла")
	}

	return records, nil
}
