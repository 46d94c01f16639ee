package config

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"bloodlink"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD" default:"bloodlink"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:""`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"bloodlink"`
	Service  string `mapstructure:"SERVICE" default:"api"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Auth struct {
	// JWT 签名密钥，dev 默认值仅用于本地调试
	JWTSecret string `mapstructure:"AUTH_JWT_SECRET" default:"bloodlink-dev-secret"`
}

type RPC struct {
	Alert RPCAlert `mapstructure:",squash"`
}

// RPCAlert 低库存告警 webhook，地址为空时不发送
type RPCAlert struct {
	Addr string `mapstructure:"ALERT_WEBHOOK_ADDR" default:""`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version       string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	StdoutTrace   bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}
