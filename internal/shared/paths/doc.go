// Package paths provides the virtual file system layout and path syntax.
//
// Every tree carries three well-known folders:
//
//	/            root  (RootID)
//	/home        home  (HomeID)
//	/home/ubuntu user  (UserID, the "~" anchor)
//
// Path expressions are resolved left to right. A leading "/" anchors at the
// root, a leading "~" at the home folder, anything else at the caller's
// current folder.
package paths
