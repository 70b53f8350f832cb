package mailer

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе почтового провайдера
	ErrInvalidResponse = errors.New("mailer client: invalid response")

	// ErrUnauthorized возвращается, когда провайдер отклонил API ключ
	ErrUnauthorized = errors.New("mailer client: api key rejected")

	// ErrRejected возвращается, когда провайдер отклонил письмо (адрес, домен отправителя)
	ErrRejected = errors.New("mailer client: message rejected")
)
