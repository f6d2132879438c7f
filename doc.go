/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package niat provides non-interactive anonymous tokens carrying a private metadata bit, built on
// equivalence class signatures over BLS12-381.
//
// # Packages for end developer usage
//
// pkg/niat: issuer and client role contexts, presignatures and tokens, and the batch verifier contexts.
//
// pkg/crypto/primitive/eqs: the equivalence class signature scheme.
//
// pkg/crypto/primitive/hiddenbit: the OR-proof showing a token payload hides an admissible bit.
//
// # Basic workflow
//
//  1. Create an Issuer with niat.NewIssuer and a Client bound to its public key with niat.NewClient.
//  2. The issuer answers the client public key with Issue, embedding the bit.
//  3. The client turns the presignature into a token with Obtain.
//  4. On redemption the issuer extracts the bit with ReadBit.
//  5. Batches are checked with Client.VerifyPresignatures and Issuer.VerifyTokens.
package niat
