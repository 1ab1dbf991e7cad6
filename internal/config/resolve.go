package config

// DefaultLogLevel is used when neither the environment nor the config file
// sets a level.
const DefaultLogLevel = "info"

// Settings are the effective runtime settings before CLI flags are applied.
type Settings struct {
	DBPath   string
	BankPath string
	Seed     int64
	LogLevel string
	LogFile  string
}

// Resolve merges defaults, the config file and the environment, in that
// order of increasing precedence.
func Resolve(file FileConfig, env Env) Settings {
	s := Settings{
		DBPath:   DefaultDBPath(),
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogPath(),
	}
	setString(&s.DBPath, file.Interview.DB)
	setString(&s.BankPath, file.Interview.Bank)
	if file.Interview.Seed != nil {
		s.Seed = *file.Interview.Seed
	}
	setString(&s.LogLevel, file.Log.Level)
	setString(&s.LogFile, file.Log.File)

	setString(&s.DBPath, &env.DB)
	setString(&s.LogLevel, &env.LogLevel)
	setString(&s.LogFile, &env.LogFile)
	return s
}

func setString(target, value *string) {
	if value == nil || *value == "" {
		return
	}
	*target = *value
}
