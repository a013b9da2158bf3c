/*
 * Copyright (c) 2022-Present, Centrify, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package saml extracts the federation assertion from the application click
// payload and the assumable role bindings from the decoded assertion.
//
// The payload is whatever HTML the provider renders around its auto-submit
// form and is not guaranteed well formed, so the assertion is located by the
// form field name with a tolerant tokenizer rather than a document parse.
package saml

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	samlResponseFieldName = "SAMLResponse"
	nameKey               = "name"
	saml2Attribute        = "saml2:attribute"
	samlAttributesRole    = "https://aws.amazon.com/SAML/Attributes/Role"
	roleARNMarker         = ":role/"
)

// ErrAssertionNotFound the application payload has no assertion form field
var ErrAssertionNotFound = errors.New("application payload does not contain a federation assertion")

// ErrEmptyAssertion the assertion form field decoded to nothing
var ErrEmptyAssertion = errors.New("federation assertion decoded to empty output")

// ErrNoRoles the assertion carries no assumable role bindings
var ErrNoRoles = errors.New("federation assertion contains no role bindings")

// RoleBinding A pairing of an assumable role ARN with the IdP principal ARN
// authorized to vouch for it.
type RoleBinding struct {
	RoleARN     string
	ProviderARN string
}

// Assertion The raw base64 payload plus its decoded document.
type Assertion struct {
	Encoded string
	Decoded []byte
}

// Parse Locates and decodes the assertion embedded in the application click
// payload.
func Parse(payload []byte) (*Assertion, error) {
	encoded, err := ExtractEncodedAssertion(payload)
	if err != nil {
		return nil, err
	}
	decoded, err := Decode(encoded)
	if err != nil {
		return nil, err
	}
	return &Assertion{
		Encoded: encoded,
		Decoded: decoded,
	}, nil
}

// ExtractEncodedAssertion Scans the payload for the SAMLResponse input field
// and returns its base64 value. The scan is anchored on the field name; the
// surrounding document is never parsed as a whole.
func ExtractEncodedAssertion(payload []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(payload))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return "", ErrAssertionNotFound
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "input" || !hasAttr {
			continue
		}
		var val string
		var found bool
		for {
			key, v, more := z.TagAttr()
			switch string(key) {
			case nameKey:
				found = string(v) == samlResponseFieldName
			case "value":
				val = string(v)
			}
			if !more {
				break
			}
		}
		if found {
			return val, nil
		}
	}
}

// Decode Base64-decodes the extracted assertion value.
func Decode(encoded string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding federation assertion: %w", err)
	}
	if len(decoded) == 0 {
		return nil, ErrEmptyAssertion
	}
	return decoded, nil
}

// ExtractRoles Returns the assumable role/provider pairs encoded in the Role
// attribute of the decoded assertion, preserving document order. Nothing is
// deduplicated; the provider is assumed not to repeat roles.
func ExtractRoles(decoded []byte) ([]RoleBinding, error) {
	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}

	var bindings []RoleBinding
	for _, node := range findRoleAttributeNodes(doc) {
		for _, pair := range attributeValues(node) {
			if binding, ok := splitRolePair(pair); ok {
				bindings = append(bindings, binding)
			}
		}
	}
	if len(bindings) == 0 {
		return nil, ErrNoRoles
	}
	return bindings, nil
}

// splitRolePair Splits a "provider,role" attribute value. Either ordering is
// accepted; the role side is the ARN carrying ":role/".
func splitRolePair(pair string) (RoleBinding, bool) {
	parts := strings.Split(pair, ",")
	if len(parts) != 2 {
		return RoleBinding{}, false
	}
	a := strings.TrimSpace(parts[0])
	b := strings.TrimSpace(parts[1])
	if strings.Contains(a, roleARNMarker) {
		return RoleBinding{RoleARN: a, ProviderARN: b}, true
	}
	if strings.Contains(b, roleARNMarker) {
		return RoleBinding{RoleARN: b, ProviderARN: a}, true
	}
	return RoleBinding{}, false
}

// findRoleAttributeNodes Walks the document in order collecting every
// saml2:attribute element named with the AWS Role attribute.
func findRoleAttributeNodes(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var nodes []*html.Node
	if n.Type == html.ElementNode && n.Data == saml2Attribute {
		for _, a := range n.Attr {
			if a.Key == nameKey && a.Val == samlAttributesRole {
				nodes = append(nodes, n)
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, findRoleAttributeNodes(c)...)
	}
	return nodes
}

// attributeValues Collects the text content of each attribute value child in
// document order.
func attributeValues(n *html.Node) []string {
	values := []string{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.FirstChild != nil {
			values = append(values, strings.TrimSpace(c.FirstChild.Data))
		}
	}
	return values
}
