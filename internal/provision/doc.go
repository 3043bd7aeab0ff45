// SPDX-License-Identifier: MPL-2.0

// Package provision builds the Python virtual environment of an
// installation.
//
// The main entry point is the Provisioner interface, implemented by
// EnvProvisioner:
//
//	provisioner := provision.NewEnvProvisioner()
//	err := provisioner.Provision(ctx, provision.EnvSpec{
//		Interpreter:  "python3",
//		EnvPath:      "/usr/local/pdfiler/pdfiler_env",
//		ManifestPath: "/usr/local/pdfiler/requirements.txt",
//	})
//
// Provisioning runs three subprocesses in order: venv creation with the
// configured interpreter, a pip self-upgrade through the environment's own
// interpreter, and the manifest install. The manifest's existence is
// checked before anything runs; its contents are pip's business.
package provision
