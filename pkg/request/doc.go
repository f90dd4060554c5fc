// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package request decodes HTTP/1.1 request heads into immutable Request values.
package request
