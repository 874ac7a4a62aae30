// Package appfile reads, writes and locates Meco app descriptor files.
//
// An app descriptor is a small JSON document describing how to launch one
// variant of a creative application:
//
//	{
//	    "developer": "jdoe@studio.com",
//	    "description": "Maya 2024",
//	    "darwinExecutable": "open -a Maya.app",
//	    "linuxExecutable": "maya",
//	    "windowsExecutable": "maya.exe",
//	    "globalEnvClassName": "Maya",
//	    "application": "maya",
//	    "folderName": "maya",
//	    "version": "2024",
//	    "packages": []
//	}
//
// Descriptors live in the resources/apps directory of the settings package.
// Store lists and creates them, Locator finds one by name across the
// development, stage, project and master project tiers.
package appfile
