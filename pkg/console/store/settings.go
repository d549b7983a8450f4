package store

import (
	database_sql "database/sql"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/store/sql"
	"github.com/russross/meddler"
)

// SaveSetting upserts an operator secret
func (db *Store) SaveSetting(setting *model.Setting) error {
	storedSetting, err := db.Setting(setting.Key)

	if err != nil {
		switch err {
		case database_sql.ErrNoRows:
			return meddler.Insert(db, "settings", setting)
		default:
			return err
		}
	}

	storedSetting.Value = setting.Value
	return meddler.Update(db, "settings", storedSetting)
}

// Setting returns an operator secret by key
func (db *Store) Setting(key string) (*model.Setting, error) {
	stmt := sql.Stmt(db.driver, sql.SelectSetting)
	data := new(model.Setting)
	err := meddler.QueryRow(db, data, stmt, key)
	return data, err
}

// Settings returns every stored secret. Key rotation rewrites them all.
func (db *Store) Settings() ([]*model.Setting, error) {
	stmt := sql.Stmt(db.driver, sql.SelectAllSettings)
	var data []*model.Setting
	err := meddler.QueryAll(db, &data, stmt)
	return data, err
}
