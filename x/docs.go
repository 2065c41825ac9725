/*
Package x contains the standard extensions

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application.
This package holds the authentication helpers shared by all of them.
*/
package x
