package models

import "errors"

// Ошибки бизнес-уровня. Репозитории и сервисы оборачивают их через
// fmt.Errorf("%s: %w", op, err), HTTP-слой переводит в статус-коды
// через errors.Is.
var (
	// ErrAccountNotFound счёт с указанным ID не существует.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUserNotFound пользователь с указанным ID или email не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrAssociationNotFound связь счёт-пользователь не существует.
	ErrAssociationNotFound = errors.New("association not found")
	// ErrAccountAlreadyExists счёт с таким идентификационным номером уже есть.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrUserAlreadyExists пользователь с таким email уже зарегистрирован.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrAssociationAlreadyExists пара счёт-пользователь уже связана.
	ErrAssociationAlreadyExists = errors.New("association already exists")
	// ErrAccountInactive операция над аннулированным счётом.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrInsufficientBalance списание превышает текущий баланс.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidCredentials неверная пара email/пароль. Намеренно не
	// различает отсутствие пользователя и неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownRole имя роли вне закрытого словаря.
	ErrUnknownRole = errors.New("unknown role")
)
