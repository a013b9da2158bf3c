/*
 * Copyright (c) 2023-Present, Centrify, Inc.
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

package utils

const (
	// ContentType http header content type
	ContentType = "Content-Type"
	// ApplicationJSON content value for json
	ApplicationJSON = "application/json"
	// TextHTML content value for html
	TextHTML = "text/html"
	// Accept HTTP Accept header
	Accept = "Accept"
	// UserAgentHeader user agent header
	UserAgentHeader = "User-Agent"
	// XNativeClientHeader marks API calls issued by this CLI rather than a browser
	XNativeClientHeader = "X-Centrify-Native-Client"
	// PassThroughStringNewLineFMT string formatter to make lint happy
	PassThroughStringNewLineFMT = "%s\n"
)
