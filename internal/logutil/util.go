/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logutil formats protocol log lines as role=[...] op=[...] followed by key=[value] fields.
package logutil

import (
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"
)

// LogError logs a failed operation of a protocol role.
func LogError(logger *log.Log, role, op, errMsg string, fields ...string) {
	logger.Errorf("%s errMsg=[%s]", prefix(role, op, fields), errMsg)
}

// LogWarn logs a rejected input of a protocol role.
func LogWarn(logger *log.Log, role, op, msg string, fields ...string) {
	logger.Warnf("%s msg=[%s]", prefix(role, op, fields), msg)
}

// LogDebug logs a protocol step.
func LogDebug(logger *log.Log, role, op, msg string, fields ...string) {
	logger.Debugf("%s msg=[%s]", prefix(role, op, fields), msg)
}

// LogInfo logs a protocol event.
func LogInfo(logger *log.Log, role, op, msg string, fields ...string) {
	logger.Infof("%s msg=[%s]", prefix(role, op, fields), msg)
}

// KV formats one field.
func KV(key string, val interface{}) string {
	return fmt.Sprintf("%s=[%v]", key, val)
}

func prefix(role, op string, fields []string) string {
	p := fmt.Sprintf("role=[%s] op=[%s]", role, op)

	if len(fields) == 0 {
		return p
	}

	return p + " " + strings.Join(fields, " ")
}
