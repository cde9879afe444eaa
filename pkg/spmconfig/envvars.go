package spmconfig

const envVarPrefix = "SPM_"

const (
	// HomeEnvVar overrides the spm home directory (default
	// $HOME/.spm, or %APPDATA%\spm on Windows).
	HomeEnvVar = envVarPrefix + "HOME"

	// StackYamlEnvVar overrides the path to the project's stack.yaml,
	// the way DAML_PROJECT lets the teacher's assistant run outside the
	// project directory.
	StackYamlEnvVar = envVarPrefix + "STACK_YAML"

	// NetrcEnvVar overrides the netrc path consulted for snapshot
	// mirror authentication.
	NetrcEnvVar = envVarPrefix + "NETRC"

	// SnapshotDirectoryURLEnvVar overrides the snapshot directory
	// document URL (spec.md §4.1).
	SnapshotDirectoryURLEnvVar = envVarPrefix + "SNAPSHOT_DIRECTORY_URL"

	// IndexHTTPURLEnvVar overrides the plain-HTTP package index mirror
	// base URL.
	IndexHTTPURLEnvVar = envVarPrefix + "INDEX_URL"

	// IndexOCIRegistryEnvVar, when set, switches the package index
	// backend to an OCI registry at this host instead of the HTTP
	// mirror.
	IndexOCIRegistryEnvVar = envVarPrefix + "INDEX_OCI_REGISTRY"

	// IndexOCIInsecureEnvVar opts the OCI index registry into plain HTTP
	// instead of HTTPS — for local/self-hosted registries in dev setups.
	IndexOCIInsecureEnvVar = envVarPrefix + "INDEX_OCI_INSECURE"
)
