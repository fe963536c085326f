package constants

import "time"

// Period names an exercise or hobby time-of-day bucket
type Period string

const (
	AppName            = "dailies"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	DefaultConfigPath  = "~/.config/dailies/dailies.db"
	Version            = "v0.1.0"

	// DateFormat is the day key layout used for every per-day record (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Progress constants
	ProgressCacheTTL         = 5000 * time.Millisecond
	ProgressDebounce         = 100 * time.Millisecond
	ProgressMaxConcurrency   = 16
	DayPagerHistoryDays      = 365
	MissingItemOrder         = 999
	ExerciseObjectivePrefix  = "exercise-"
	ExerciseSelectionDocID   = "exercises"
	ExerciseGroupMorningID   = "exercises-morning"
	ExerciseGroupAfternoonID = "exercises-afternoon"
	ExerciseGroupNightID     = "exercises-night"
	HobbyGroupPrefix         = "hobbies-"

	// Periods
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
	PeriodNight     Period = "night"

	// Document store collections
	CollectionUsers      = "users"
	CollectionDailyList  = "dailyList"
	CollectionDailyCheck = "dailyChecks"
	CollectionObjectives = "objectives"
	CollectionHobbyLogs  = "hobbyLogs"
	CollectionAccounts   = "accounts"

	// Identity constants
	MaxFailedSignIns   = 5
	FailedSignInWindow = 15 * time.Minute
	RecentLoginWindow  = 5 * time.Minute
	MinPasswordLength  = 6
	MinDisplayNameLen  = 2

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailies-"
	BackupFileSuffix = ".db"

	// Lock constants
	TUILockfileName = "dailies-tui.lock"
)
