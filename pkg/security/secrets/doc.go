/*
Package secrets resolves credentials, chiefly the model provider API key,
from environment variables, mounted secret files or Google Cloud Secret
Manager.

# Providers

Each backend implements SecretProvider:

  - EnvProvider maps "openai_api_key" to PREFIX + "OPENAI_API_KEY".
  - FileProvider reads <dir>/<name>, requiring mode 0600 or 0400 and
    rejecting names that escape the directory. With watching enabled,
    fsnotify events clear its cache.
  - GCPSecretManagerProvider reads
    projects/<project>/secrets/<name>/versions/latest, or a fully
    qualified resource name as given.

# Manager

Manager tries providers in order and caches the first hit:

	mgr, err := secrets.NewManagerFromConfig(ctx, cfg.Secrets)
	if err != nil {
		return err
	}
	defer mgr.Close()

	key, err := mgr.GetSecret(ctx, cfg.Generation.APIKeySecret)

Configuration strings may embed ${secret:name} references, expanded by
ResolveReferences.
*/
package secrets
