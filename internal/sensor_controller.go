/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package internal

import (
	"context"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/antst/ctfan/internal/config"
	"github.com/antst/ctfan/internal/logger"
	"github.com/antst/ctfan/internal/safe_mqtt"
)

const (
	epsilon             = 1e-10
	sensorControlSuffix = "/sensors/"
)

type SensorController struct {
	name        string
	lock        sync.RWMutex
	cfg         *config.SensorConfig
	store       RunStore
	mqtt        safe_mqtt.MqttClient
	topics      []string
	value       float64
	timestamp   time.Time
	controlChan chan<- bool
}

func NewSensorController(
	_name string, _cfg *config.SensorConfig, _controlTopic string, _mqtt safe_mqtt.MqttClient, _store RunStore,
	_controlChan chan<- bool,
) *SensorController {
	s := &SensorController{
		name:        _name,
		cfg:         _cfg,
		store:       _store,
		mqtt:        _mqtt,
		timestamp:   zeroTS,
		controlChan: _controlChan,
	}

	if s.readState() {
		logger.L().Debugf("Loaded previous state from DB for sensor %v: %v", s.name, s.value)
		s.timestamp = time.Now()
	}

	_mqtt.SafeSubscribe(_cfg.Topic, mqttQoS, s.ValueUpdateHandler)
	s.topics = append(s.topics, _cfg.Topic)
	sensorMQTTgroup := _controlTopic + sensorControlSuffix + s.name + "/"
	for _, control := range []string{"offset", "weight", "scale"} {
		_mqtt.SafeSubscribe(sensorMQTTgroup+control, mqttQoS, s.controlUpdateHandler)
		s.topics = append(s.topics, sensorMQTTgroup+control)
	}

	return s
}

// Close drops the sensor's subscriptions. Messages already in flight are still handled.
func (s *SensorController) Close() {
	s.mqtt.SafeUnsubscribe(s.topics...)
}

func (s *SensorController) ValueUpdateHandler(client mqtt.Client, message mqtt.Message) {
	t0, err := extractF64PlainOrJson(message, s.cfg.JSONEntry)
	if err != nil {
		logger.L().Error(err)
		return
	}
	s.lock.Lock()
	oldValue, oldTimestamp := s.value, s.timestamp
	s.value = t0*(*s.cfg.Scale) + (*s.cfg.Offset)
	s.timestamp = time.Now()
	value := s.value
	s.lock.Unlock()

	if err := s.writeState(value); err != nil {
		logger.L().Error(err)
	}
	logger.L().Debugf("Got value for sensor %s : %f", s.name, value)
	if oldValue != value || !oldTimestamp.After(zeroTS) {
		// a pending signal already makes the parent re-read every sensor
		select {
		case s.controlChan <- true:
		default:
		}
	}
}

func (s *SensorController) Value() (float64, time.Time) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.value, s.timestamp
}

func (s *SensorController) writeState(value float64) error {
	if s.store == nil {
		return nil
	}
	return s.store.UpsertSensorValue(context.Background(), s.name, value)
}

func (s *SensorController) readState() bool {
	if s.store == nil {
		return false
	}
	val, err := s.store.GetSensorValue(context.Background(), s.name)
	if err != nil {
		return false
	}
	s.value = val
	return true
}

func (s *SensorController) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := lastTopicLevel(message.Topic())
	logger.L().Infof("Sensor %v got MQTT control request: %v : %v", s.name, topic, string(message.Payload()))

	value, err := strconv.ParseFloat(string(message.Payload()), 64)
	if err != nil {
		logger.L().Error(err)
		return
	}

	s.lock.Lock()
	switch topic {
	case "weight":
		s.cfg.Weight = &value
	case "offset":
		s.cfg.Offset = &value
	case "scale":
		s.cfg.Scale = &value
	default:
		s.lock.Unlock()
		logger.L().Errorf("Unknown control topic: %s", topic)
		return
	}
	s.lock.Unlock()

	logger.L().Infof("Updated %s for sensor `%v` to %v", topic, s.name, value)
}

func sensorsMean(sensors []*SensorController) (float64, time.Time) {
	var v, wt float64

	for _, sensor := range sensors {
		sensor.lock.RLock()
		if sensor.timestamp.After(zeroTS) {
			weight := *sensor.cfg.Weight
			v += sensor.value * weight
			wt += weight
		}
		sensor.lock.RUnlock()
	}

	if wt < epsilon {
		return 0, zeroTS
	}

	return v / wt, time.Now()
}
