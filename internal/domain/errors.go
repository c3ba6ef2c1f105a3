package domain

import "errors"

// ErrorKind enumerates the user-facing validation failures. Callers branch on
// the kind, never on the message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDuplicateEmail
	KindDuplicateUsername
	KindInvalidCredentials
	KindInvalidAmount
	KindWalletNotFound
	KindSenderWalletNotFound
	KindInsufficientBalance
	KindReceiverNotFound
	KindReceiverWalletNotFound
	KindSelfTransfer
	KindMissingFields
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                "unknown",
	KindDuplicateEmail:         "duplicate_email",
	KindDuplicateUsername:      "duplicate_username",
	KindInvalidCredentials:     "invalid_credentials",
	KindInvalidAmount:          "invalid_amount",
	KindWalletNotFound:         "wallet_not_found",
	KindSenderWalletNotFound:   "sender_wallet_not_found",
	KindInsufficientBalance:    "insufficient_balance",
	KindReceiverNotFound:       "receiver_not_found",
	KindReceiverWalletNotFound: "receiver_wallet_not_found",
	KindSelfTransfer:           "self_transfer",
	KindMissingFields:          "missing_fields",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a domain failure carrying its kind and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any domain error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

var (
	ErrDuplicateEmail         = &Error{Kind: KindDuplicateEmail, Message: "Email already registered"}
	ErrDuplicateUsername      = &Error{Kind: KindDuplicateUsername, Message: "Username already taken"}
	ErrInvalidCredentials     = &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrInvalidAmount          = &Error{Kind: KindInvalidAmount, Message: "Amount must be positive"}
	ErrWalletNotFound         = &Error{Kind: KindWalletNotFound, Message: "Wallet not found"}
	ErrSenderWalletNotFound   = &Error{Kind: KindSenderWalletNotFound, Message: "Sender wallet not found"}
	ErrInsufficientBalance    = &Error{Kind: KindInsufficientBalance, Message: "Insufficient balance"}
	ErrReceiverNotFound       = &Error{Kind: KindReceiverNotFound, Message: "Receiver not found"}
	ErrReceiverWalletNotFound = &Error{Kind: KindReceiverWalletNotFound, Message: "Receiver wallet not found"}
	ErrSelfTransfer           = &Error{Kind: KindSelfTransfer, Message: "Cannot transfer to self"}
	ErrMissingFields          = &Error{Kind: KindMissingFields, Message: "Missing fields"}
)

// KindOf extracts the domain kind from err, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return KindUnknown, false
}
