package cli

import "context"

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string) (CLIResult, error) {
	return RunWithEnv(ctx, args, DefaultEnv())
}

// RunWithEnv is Run with injected collaborators.
func RunWithEnv(ctx context.Context, args []string, env Env) (CLIResult, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return CLIResult{ExitCode: ExitCode(err)}, err
	}
	return ExecuteWithEnv(ctx, inv, env)
}
