package graphstore

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func marshalJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("null"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func unmarshalJSON(j datatypes.JSON, out any) error {
	if len(j) == 0 {
		return nil
	}
	return json.Unmarshal(j, out)
}
