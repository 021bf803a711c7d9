package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tier представляет тарифный план подписки.
// Цена хранится в минимальных единицах валюты (центах).
type Tier struct {
	ID          string   `json:"id"`          // Уникальный идентификатор тарифа
	Name        string   `json:"name"`        // Название тарифа ("Free", "Zen Premium", ...)
	Description string   `json:"description"` // Описание тарифа
	Price       int64    `json:"price"`       // Цена за месяц в центах, 0 для бесплатного тарифа
	Features    Features `json:"features"`    // Набор возможностей тарифа
}

// Features описывает возможности тарифа. Исторически поле в базе хранилось
// в трёх видах: структурный объект, плоский массив строк и дважды
// сериализованная строка. Декодирование выполняется один раз на границе
// хранилища, дальше по коду ходит только структурное значение.
type Features struct {
	FeatureLimit *int     `json:"feature_limit,omitempty"`
	FeatureList  []string `json:"feature_list"`
}

// UnmarshalJSON принимает все исторические представления поля features.
func (f *Features) UnmarshalJSON(data []byte) error {
	const op = "models.Features.UnmarshalJSON"

	if len(data) == 0 || string(data) == "null" {
		*f = Features{}
		return nil
	}

	// Дважды сериализованная строка: "{\"feature_list\": ...}" или "[\"a\"]".
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return f.UnmarshalJSON([]byte(inner))
	}

	// Плоский массив строк.
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		*f = Features{FeatureList: list}
		return nil
	}

	type plain Features
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*f = Features(p)
	return nil
}

// Scan реализует sql.Scanner для чтения jsonb-колонки features.
func (f *Features) Scan(src any) error {
	const op = "models.Features.Scan"
	switch v := src.(type) {
	case nil:
		*f = Features{}
		return nil
	case []byte:
		return f.UnmarshalJSON(v)
	case string:
		return f.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("%s: unsupported type %T", op, src)
	}
}

// Value реализует driver.Valuer: в базу всегда уходит структурный объект.
func (f Features) Value() (driver.Value, error) {
	return json.Marshal(struct {
		FeatureLimit *int     `json:"feature_limit,omitempty"`
		FeatureList  []string `json:"feature_list"`
	}{f.FeatureLimit, f.FeatureList})
}
