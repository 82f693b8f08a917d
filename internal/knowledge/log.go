package knowledge

import "github.com/sirupsen/logrus"

// Log receives the deduction trace at debug level.
var Log = logrus.New()
