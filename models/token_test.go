// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_GetAccountID(t *testing.T) {
	token := Token{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}

	id, err := token.GetAccountID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestToken_GetAccountID_NotANumber(t *testing.T) {
	token := Token{RegisteredClaims: jwt.RegisteredClaims{Subject: "ana"}}

	_, err := token.GetAccountID()
	assert.Error(t, err)
}

func TestToken_String(t *testing.T) {
	token := Token{SignedString: "a.b.c"}
	assert.Equal(t, "a.b.c", token.String())
}
