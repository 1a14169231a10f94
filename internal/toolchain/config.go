// Package toolchain configures and invokes the external assemblers and
// runtimes generated output is handed off to: ilasm/the CLR for the
// CIL backend, jasmin/java for the JVM backend. Uses
// github.com/joho/godotenv to load tool paths from a local .env file.
package toolchain

import (
	"os"

	"github.com/joho/godotenv"
)

// Config names the external executables the driver shells out to.
// Each defaults to a bare name resolved via PATH when its environment
// variable is unset.
type Config struct {
	Ilasm  string
	Jasmin string
	Java   string
}

// Load reads a .env file if present (ignoring a missing file) and
// builds a Config from
// RUPC_ILASM/RUPC_JASMIN/RUPC_JAVA, falling back to bare executable
// names.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Ilasm:  envOr("RUPC_ILASM", "ilasm"),
		Jasmin: envOr("RUPC_JASMIN", "jasmin"),
		Java:   envOr("RUPC_JAVA", "java"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
