package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrUserNotVerified    = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")

	ErrGoalNotFound   = errors.New("no reading goal set")
	ErrInvalidAmount  = errors.New("progress amount must be non-negative")
	ErrHistoryExists  = errors.New("reading history already recorded for this date")
	ErrRewardNotFound = errors.New("reward not found or already redeemed")

	ErrActiveSessionExists = errors.New("active reading session exists")
	ErrNoActiveSession     = errors.New("no active reading session found")

	ErrBookNotFound       = errors.New("book not found")
	ErrDuplicateBookTitle = errors.New("you have already uploaded a book with this title")
	ErrDuplicateBookFile  = errors.New("this book has already been uploaded")
	ErrBookmarkExists     = errors.New("bookmark already exists for this page")
	ErrBookmarkNotFound   = errors.New("bookmark not found")
	ErrHighlightNotFound  = errors.New("highlight not found")
	ErrBlockEntryNotFound = errors.New("block list entry not found")
)
