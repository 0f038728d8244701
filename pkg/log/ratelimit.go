// Copyright 2022 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"strconv"
	"sync"
	"time"

	goxrate "golang.org/x/time/rate"
)

// Rate specifies how many messages of a given format a rate-limited Logger lets through.
type Rate struct {
	// rate limit
	Limit goxrate.Limit
	// allowed bursts
	Burst int
}

// Every returns a rate limit for one message per interval.
func Every(interval time.Duration) goxrate.Limit {
	return goxrate.Every(interval)
}

// Interval returns a Rate that lets one message through per interval.
func Interval(interval time.Duration) Rate {
	return Rate{Limit: Every(interval), Burst: 1}
}

type ratelimited struct {
	Logger
	sync.Mutex
	rate    Rate
	limits  map[string]*goxrate.Limiter
	dropped map[string]int
}

// RateLimit wraps log so that messages with the same format are throttled
// to rate. Limiting is keyed by the format string, not by the formatted
// message, so a per-address debug message counts as one message kind.
func RateLimit(log Logger, rate Rate) Logger {
	if rate.Burst < 1 {
		rate.Burst = 1
	}
	return &ratelimited{
		Logger:  log,
		rate:    rate,
		limits:  make(map[string]*goxrate.Limiter),
		dropped: make(map[string]int),
	}
}

func (rl *ratelimited) Debug(format string, args ...interface{}) {
	if !rl.Logger.DebugEnabled() {
		return
	}
	if dropped, ok := rl.allow(format); ok {
		rl.Logger.Debug(format+suppressed(dropped), args...)
	}
}

func (rl *ratelimited) Info(format string, args ...interface{}) {
	if dropped, ok := rl.allow(format); ok {
		rl.Logger.Info(format+suppressed(dropped), args...)
	}
}

func (rl *ratelimited) Warn(format string, args ...interface{}) {
	if dropped, ok := rl.allow(format); ok {
		rl.Logger.Warn(format+suppressed(dropped), args...)
	}
}

func (rl *ratelimited) Error(format string, args ...interface{}) {
	if dropped, ok := rl.allow(format); ok {
		rl.Logger.Error(format+suppressed(dropped), args...)
	}
}

func (rl *ratelimited) allow(format string) (int, bool) {
	rl.Lock()
	defer rl.Unlock()

	lim, ok := rl.limits[format]
	if !ok {
		lim = goxrate.NewLimiter(rl.rate.Limit, rl.rate.Burst)
		rl.limits[format] = lim
	}
	if !lim.Allow() {
		rl.dropped[format]++
		return 0, false
	}

	dropped := rl.dropped[format]
	delete(rl.dropped, format)
	return dropped, true
}

func suppressed(count int) string {
	if count == 0 {
		return ""
	}
	return " (" + strconv.Itoa(count) + " similar messages suppressed)"
}

