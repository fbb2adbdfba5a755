package repository

import "errors"

// ErrBirdNotFound возвращается обоими драйверами, если птицы с таким ID нет
var ErrBirdNotFound = errors.New("bird not found")
