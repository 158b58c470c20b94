package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("kullanıcı bulunamadı")
	ErrOrderNotFound          = errors.New("sipariş bulunamadı")
	ErrOrderTerminal          = errors.New("sipariş son durumda, işlem yapılamaz")
	ErrCounterOfferNotPending = errors.New("incelenecek karşı teklif yok")
	ErrConfirmationRequired   = errors.New("onay gerekli")
)
