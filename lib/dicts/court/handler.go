package courtprovider

import (
	"esign-backend/db"
	courtstore "esign-backend/lib/dicts/court/store"
	initchecker "esign-backend/lib/utils/init-checker"
	"esign-backend/models"
	dictapimodels "esign-backend/models/api/dict"
	dbmodels "esign-backend/models/db"
	"strings"
)

type Provider interface {
	Get(id string) (item dictapimodels.CourtView, err error)
	List(name string) (list []dictapimodels.CourtView, err error)
	Create(request dictapimodels.CourtData) (id string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(courtstore.NewInstance(db.DB))
}

func NewInstance(store courtstore.Provider) Provider {
	instance := impl{
		store: store,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	return instance
}

type impl struct {
	store courtstore.Provider
}

func (i impl) Get(id string) (item dictapimodels.CourtView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.CourtView{}, err
	}
	if rec == nil {
		return dictapimodels.CourtView{}, models.NotFound("суд не найден")
	}
	return dictapimodels.CourtConvert(*rec), nil
}

func (i impl) List(name string) (list []dictapimodels.CourtView, err error) {
	recList, err := i.store.List(strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.CourtView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.CourtConvert(rec))
	}
	return result, nil
}

func (i impl) Create(request dictapimodels.CourtData) (id string, err error) {
	request.Name = strings.TrimSpace(request.Name)
	if err = request.Validate(); err != nil {
		return "", models.Validation("%s", err.Error())
	}
	return i.store.Create(dbmodels.Court{Name: request.Name})
}
