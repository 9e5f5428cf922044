package storage

import "errors"

// ErrNotFound возвращается, когда запись уже обработана или не существует.
// Типичный случай - два менеджера одновременно проверяют одну и ту же новость:
// первый успевает, второй получает эту ошибку и показывает "уже обработано".
var ErrNotFound = errors.New("storage: not found")
