package botkit

import (
	"encoding/json"
	"fmt"
)

// ParseJSON разбирает аргументы команды, переданные в формате json.
// Например: /submit {"category": "sports", "title": "..."}
func ParseJSON[T any](src string) (T, error) {
	var args T

	if err := json.Unmarshal([]byte(src), &args); err != nil {
		return args, fmt.Errorf("parse args: %w", err)
	}

	return args, nil
}
