// Package sleep defines the Night record kept by the sleep log.
//
// This package contains the entity and its derived display values only.
// Persistence lives in internal/store; tracking rules live in
// internal/tracker. sleep imports nothing internal.
//
// Key constraints:
//   - Times are unix milliseconds (int64), matching the stored columns
//   - A night is open while EndTimeMilli == StartTimeMilli
//   - Quality is 0..5, or QualityUnrated (-1) until the night is rated
//   - All JSON tags use snake_case
package sleep
