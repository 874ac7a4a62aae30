// Package paths resolves the on-disk layout used by Meco.
//
// Every project lives under a shared projects root:
//
//	<root>/<project>/
//	  ├── developers/<developer>/
//	  │   ├── reserved/main
//	  │   ├── development/<env>
//	  │   └── stage/<env>
//	  ├── internal/
//	  ├── external/
//	  └── users/<user>/env/
//	      ├── log/
//	      └── script/
//
// The root itself is derived from where the settings package is installed. A
// production install sits under a versioned folder (mMecoSettings/1.0.0/...)
// and a development checkout does not, so the two layouts ascend a different
// number of parents to reach the root.
//
// All functions are pure string joins. The only I/O is the optional directory
// creation done by DevelopmentPackagesPath, LogFilePath and ScriptFilePath.
package paths
