package ephemeral

import (
	"errors"
	"time"

	"clubconnect/entity"
)

// StartChallenge creates or replaces the OTP challenge at key. Replacing an
// existing challenge counts as a resend; after three resends the caller is
// locked out until the entry expires.
func StartChallenge(store Store, key, code string, ttl time.Duration) error {
	var previous entity.OtpChallenge
	resendCount := 0
	if err := store.Get(key, &previous); err == nil {
		if previous.ResendCount >= 3 {
			return entity.ErrOtpLockout
		}
		resendCount = previous.ResendCount + 1
	}
	challenge := entity.OtpChallenge{
		Code:        code,
		Expiry:      time.Now().Add(ttl),
		ResendCount: resendCount,
	}
	return store.Put(key, challenge, ttl)
}

// VerifyChallenge checks code against the challenge at key and consumes it on
// success. Wrong codes increment the attempt counter; the third failure
// deletes the challenge so the original code can never succeed afterwards.
func VerifyChallenge(store Store, key, code string) error {
	return verify(store, key, code, true)
}

// PeekChallenge checks the code without consuming it, for flows that verify
// first and act in a later request.
func PeekChallenge(store Store, key, code string) error {
	return verify(store, key, code, false)
}

func verify(store Store, key, code string, consume bool) error {
	var challenge entity.OtpChallenge
	err := store.Get(key, &challenge)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.ErrOtpExpired
	}
	if err != nil {
		return err
	}
	if challenge.Expired(time.Now()) {
		_ = store.Delete(key)
		return entity.ErrOtpExpired
	}
	if challenge.Code != code {
		challenge.Attempts++
		if challenge.Attempts >= 3 {
			_ = store.Delete(key)
			return entity.ErrOtpLockout
		}
		if err = store.Put(key, challenge, time.Until(challenge.Expiry)); err != nil {
			return err
		}
		return entity.ErrOtpInvalid
	}
	if consume {
		_ = store.Delete(key)
	}
	return nil
}
