package main

import "testing"

func TestRegisterAndLogin(t *testing.T) {
	db := testDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("carol", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("expected id and token")
	}

	if _, _, err := auth.Register("carol", "secret"); err == nil {
		t.Error("duplicate username must be rejected")
	}
	if _, _, err := auth.Register("x", "secret"); err == nil {
		t.Error("too-short username must be rejected")
	}
	if _, _, err := auth.Register("dave", "abc"); err == nil {
		t.Error("too-short password must be rejected")
	}

	gotID, gotToken, err := auth.Login("carol", "secret", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotID != id || gotToken == "" {
		t.Error("login should return the account id and a token")
	}

	if _, _, err := auth.Login("carol", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password must be rejected")
	}
}

func TestValidateTokenRoundtrip(t *testing.T) {
	db := testDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("erin", "secret")
	if err != nil {
		t.Fatal(err)
	}

	gotID, username, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != id || username != "erin" {
		t.Errorf("claims mismatch: %d %s", gotID, username)
	}

	if _, _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token must be rejected")
	}
}

func TestJWTSecretPersists(t *testing.T) {
	db := testDB(t)

	first := NewAuth(db)
	_, token, err := first.Register("frank", "secret")
	if err != nil {
		t.Fatal(err)
	}

	// A second Auth on the same database loads the same secret, so
	// tokens survive a process restart
	second := NewAuth(db)
	if _, _, err := second.ValidateToken(token); err != nil {
		t.Errorf("token should validate across instances: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	db := testDB(t)
	auth := NewAuth(db)

	for i := 0; i < maxLoginAttempts; i++ {
		auth.Login("nobody", "pw", "9.9.9.9")
	}
	_, _, err := auth.Login("nobody", "pw", "9.9.9.9")
	if err == nil || err.Error() != "too many login attempts, try again later" {
		t.Errorf("expected rate limit error, got %v", err)
	}

	// Other IPs are unaffected
	if _, _, err := auth.Login("nobody", "pw", "8.8.8.8"); err == nil || err.Error() == "too many login attempts, try again later" {
		t.Errorf("rate limit must be per-IP, got %v", err)
	}
}

func TestGuestOnlySecretGeneration(t *testing.T) {
	// Without a database the secret is ephemeral but still usable
	secret := loadOrCreateSecret(nil)
	if len(secret) != 32 {
		t.Errorf("expected 32-byte secret, got %d", len(secret))
	}
}
