// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the authentication signal and token utilities.

# Authentication Signal

Signal holds the session's authentication state (flag plus bearer token)
and notifies listeners when the flag flips:

	sig := auth.NewSignal()
	unsubscribe := sig.Subscribe(func(ctx context.Context, st auth.State) {
		// runs once per transition
	})
	sig.Set(ctx, true, token)

Calling Set again with the same flag only refreshes the token. Each
transition carries a Generation number and is delivered at most once.

# Session IDs

Sessions are identified by random UUIDs:

	id := auth.NewSessionID()
	err := auth.ValidateSessionID(id)

# Bearer Tokens

Extract a token from an Authorization header:

	token, err := auth.BearerToken(r.Header.Get("Authorization"))

# Token Fingerprints

For log correlation without leaking credentials:

	fp := auth.FingerprintToken(token, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
